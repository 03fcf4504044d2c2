package cmd

import (
	"context"
	"fmt"

	"tagging/internal/adapters/out/postgres"
	"tagging/internal/config"
	"tagging/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "tagging",
	Short:         "Custom tagging order marketplace",
	Long:          `Marketplace where customers order tagging packages and admins deliver them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config.yaml")
}

// Execute runs the command selected on the command line. Long running
// commands stop when ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// bootstrap loads the configuration, builds the logger, opens the database
// and assembles the composition root. Close on the root also closes the
// database.
func bootstrap() (*CompositionRoot, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.ToLoggerOptions())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := postgres.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.ToPoolConfig(), cfg.Database.Debug)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	root, err := NewCompositionRoot(cfg, db, log, nil)
	if err != nil {
		return nil, err
	}
	root.closers = append(root.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}, func() error {
		_ = log.Sync()
		return nil
	})

	log.Info("bootstrap_finished",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("queue", cfg.Queue.Enabled))
	return root, nil
}
