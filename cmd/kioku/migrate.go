package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kioku-app/kioku/internal/database"
	"github.com/kioku-app/kioku/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Backend != "mysql" {
				return fmt.Errorf("migrate requires the mysql store backend, got %q", cfg.Store.Backend)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer db.Close()

			return database.Migrate(cmd.Context(), db, schemas.Migrations)
		},
	}
}
