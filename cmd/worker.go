package cmd

import (
	"context"
	"errors"

	"tagging/internal/adapters/out/queue"
	"tagging/internal/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errQueueDisabled = errors.New("queue is disabled, set queue.enabled to run the worker")

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued auto-completion tasks",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	root, err := bootstrap()
	if err != nil {
		return err
	}
	defer root.Close()

	if !root.scheduler.Enabled() {
		return errQueueDisabled
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	startTaskServer(ctx, g, root)
	return g.Wait()
}

// startTaskServer runs the asynq server in g until ctx is done.
func startTaskServer(ctx context.Context, g *errgroup.Group, root *CompositionRoot) {
	opt, serverCfg := queue.BuildServerConfig(root.Config().Queue.ToQueueConfig())
	serverCfg.Logger = logger.Component(root.Logger(), "asynq")

	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	root.CreateConsumer().Register(mux)

	g.Go(func() error {
		if err := server.Start(mux); err != nil {
			return err
		}
		root.Logger().Info("worker_started")

		<-ctx.Done()
		server.Shutdown()
		root.Logger().Info("worker_stopped")
		return nil
	})
}
