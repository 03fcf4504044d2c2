package cmd

import (
	"tagging/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	root, err := bootstrap()
	if err != nil {
		return err
	}
	defer root.Close()

	if err = postgres.AutoMigrate(root.gormDB); err != nil {
		return err
	}
	root.Logger().Info("migrate_finished")
	return nil
}
