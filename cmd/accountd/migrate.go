package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-account/pkg/user"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations to the PostgreSQL database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Persistence.Type != "postgres" && cfg.Persistence.Type != "postgresql" {
		return errors.New("migrate requires PERSISTENCE=postgres")
	}

	ctx := cmd.Context()
	cmd.Println("Connecting to database...")
	pool, err := openPool(ctx, cfg.Persistence.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	if err := user.Migrate(ctx, pool); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
