package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"carpool/internal/config"
	"carpool/internal/db"
	"carpool/internal/logger"
)

// rootCmd is the carpool administration CLI.
var rootCmd = &cobra.Command{
	Use:   "carpool-admin",
	Short: "Administrative tasks for the carpool app",
	Long: `Administrative tasks for the carpool app.

Available subcommands:
  migrate   - Create or update the database schema
  bootstrap - Create the configured admin account if it is missing
  seed      - Import demo carpool offers owned by the admin account`,
	SilenceUsage: true,
}

var envFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")
	rootCmd.AddCommand(migrateCmd, bootstrapCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads configuration and connects to the database.
func setup() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel, true)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, log, gormDB, nil
}
