package jobs

import (
	"fmt"

	"tagging/internal/pkg/metrics"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	sweepJob *SweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	sweeper Sweeper,
	sweepSchedule string,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
) *JobManager {
	return &JobManager{
		sweepJob: NewSweepJob(sweeper, sweepSchedule, m, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.sweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start sweep job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.sweepJob.Stop()
}
