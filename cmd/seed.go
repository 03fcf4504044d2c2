package cmd

import (
	"context"

	"tagging/internal/adapters/out/postgres"
	"tagging/internal/core/application/usecases/commands"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin and packages if missing",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	root, err := bootstrap()
	if err != nil {
		return err
	}
	defer root.Close()

	if err = postgres.AutoMigrate(root.gormDB); err != nil {
		return err
	}
	return seed(cmd.Context(), root)
}

func seed(ctx context.Context, root *CompositionRoot) error {
	cfg := root.Config().Seed
	result, err := root.CreateSeedCommandHandler().Handle(ctx,
		commands.NewSeedCommand(cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword))
	if err != nil {
		return err
	}
	root.Logger().Info("seed_finished",
		zap.Bool("admin_created", result.AdminCreated),
		zap.Int("packages_created", result.PackagesCreated))
	return nil
}
