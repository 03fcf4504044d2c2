package cmd

import (
	"tagging/internal/core/application/usecases/commands"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark overdue orders late and auto-complete expired deliveries once",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	root, err := bootstrap()
	if err != nil {
		return err
	}
	defer root.Close()

	result, err := root.CreateSweepOrdersCommandHandler().Handle(cmd.Context(), commands.NewSweepOrdersCommand())
	root.metrics.ObserveSweep("cli", result.MarkedLate, result.AutoCompleted, err)
	if err != nil {
		return err
	}
	root.Logger().Info("sweep_finished",
		zap.Int("marked_late", result.MarkedLate),
		zap.Int("auto_completed", result.AutoCompleted))
	return nil
}
