package cmd

import (
	"context"
	"errors"
	"net/http"

	"tagging/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	seedOnStart bool
	withWorker  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API with the order sweep",
	Long: `Start the HTTP API. The schema is migrated first, the order sweep runs
on its cron schedule and, when the queue is enabled, auto-completion tasks are
processed in the same process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", true, "create the default admin and packages if missing")
	serveCmd.Flags().BoolVar(&withWorker, "with-worker", true, "process queued tasks in this process")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	root, err := bootstrap()
	if err != nil {
		return err
	}
	defer root.Close()

	cfg := root.Config()
	log := root.Logger()

	if err = postgres.AutoMigrate(root.gormDB); err != nil {
		return err
	}
	if seedOnStart {
		if err = seed(cmd.Context(), root); err != nil {
			return err
		}
	}

	server, err := root.CreateServer()
	if err != nil {
		return err
	}
	e := server.NewEcho()

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		log.Info("http_started", zap.String("addr", cfg.Server.Addr()))
		if err := e.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("http_stopping")
		return e.Shutdown(shutdownCtx)
	})

	if withWorker && root.scheduler.Enabled() {
		startTaskServer(ctx, g, root)
	}

	return g.Wait()
}
