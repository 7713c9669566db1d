package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// bootstrapCmd creates the admin account
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the configured admin account if it is missing",
	Long: `Create the admin account named by ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME.

Running it again is a no-op: an existing account with that email is left untouched.`,
	RunE: runBootstrap,
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg, log, gormDB, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	created, err := service.EnsureAdmin(cmd.Context(), repository.NewUserRepository(gormDB), service.AdminConfig{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	}, log)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created\n", cfg.AdminEmail)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Admin already present, nothing to do")
	}
	return nil
}
