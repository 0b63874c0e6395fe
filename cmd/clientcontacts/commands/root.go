package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yungbote/clientcontacts-backend/internal/app"
	"github.com/yungbote/clientcontacts-backend/internal/platform/shutdown"
)

var (
	configPath string
	cfg        app.Config
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clientcontacts",
		Short:         "Client and contact directory service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./clientcontacts.yaml)")
	root.AddCommand(serveCmd(), migrateCmd())
	return root
}

func Execute() error {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
