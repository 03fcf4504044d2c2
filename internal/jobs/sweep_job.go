package jobs

import (
	"context"
	"time"

	"tagging/internal/core/application/usecases/commands"
	"tagging/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSchedule runs the sweep every minute.
const DefaultSweepSchedule = "@every 1m"

// Sweeper applies the time driven order transitions.
type Sweeper interface {
	Handle(ctx context.Context, cmd commands.SweepOrdersCommand) (commands.SweepResult, error)
}

// SweepJob marks overdue orders Late and auto-completes delivered orders
// whose grace period has elapsed.
type SweepJob struct {
	sweeper  Sweeper
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
}

// NewSweepJob accepts any robfig/cron schedule, including descriptors such
// as "@every 30s". An empty schedule uses DefaultSweepSchedule.
func NewSweepJob(
	sweeper Sweeper,
	schedule string,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
) *SweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SweepJob{
		sweeper:  sweeper,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		metrics:  m,
		logger:   logger.With("component", "sweep_job"),
	}
}

func (j *SweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { _ = j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Infow("sweep_job_started", "schedule", j.schedule)
	return nil
}

// RunOnce sweeps immediately. Errors are logged and returned.
func (j *SweepJob) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	result, err := j.sweeper.Handle(ctx, commands.NewSweepOrdersCommand())
	j.metrics.ObserveSweep("sweep", result.MarkedLate, result.AutoCompleted, err)
	if err != nil {
		j.logger.Errorw("sweep_failed", "error", err)
		return err
	}

	if result.MarkedLate > 0 || result.AutoCompleted > 0 {
		j.logger.Infow("sweep_finished",
			"marked_late", result.MarkedLate,
			"auto_completed", result.AutoCompleted,
		)
	}
	return nil
}

// Stop waits for a running sweep to finish.
func (j *SweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Infow("sweep_job_stopped")
}
