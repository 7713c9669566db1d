package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carpool/internal/config"
	"carpool/internal/db"
)

var resetSchema bool

// migrateCmd creates or updates the schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&resetSchema, "reset", false, "drop every table before migrating")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if resetSchema {
		if err := db.Reset(gormDB); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Tables dropped")
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Database migrations completed")
	return nil
}
