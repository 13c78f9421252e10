// cmd/tools/store-admin/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storebot/internal/common/config"
	"storebot/internal/common/database"
	"storebot/internal/common/logger"
)

var (
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "store-admin",
		Short: "Manage the storebot database and ask questions from the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			zapLog = logger.New(cfg.Logging.Level, "console")
			log = logger.NewZapAdapter(zapLog)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if zapLog != nil {
				_ = zapLog.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		tablesCmd(),
		askCmd(),
		replCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (*database.PostgresClient, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pg, nil
}
