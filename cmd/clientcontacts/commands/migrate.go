package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/clientcontacts-backend/internal/app"
	"github.com/yungbote/clientcontacts-backend/internal/data/db"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(cfg.Log.Mode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			gdb, err := app.OpenDB(cfg, log)
			if err != nil {
				return err
			}
			if gdb == nil {
				log.Info("memory driver has no schema to migrate")
				return nil
			}
			defer func() { _ = db.Close(gdb) }()

			if err := db.Migrate(cmd.Context(), gdb, cfg.Storage.Migrator); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("Schema up to date", "driver", cfg.Storage.Driver, "migrator", cfg.Storage.Migrator)
			return nil
		},
	}
}
