package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loan-ledger/internal/infrastructure/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			gdb, err := db.OpenGorm(cfg)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema migrated (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}
