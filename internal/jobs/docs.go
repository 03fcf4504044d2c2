// Package jobs provides scheduled background tasks for the tagging service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// SweepJob runs the order sweep on a configurable schedule (every minute by
// default): orders past their due date become Late, and delivered orders
// whose latest delivery is older than the grace period are completed.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sweepHandler, cfg.Order.SweepSchedule, m, log)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// The sweep also runs before order reads and backs up the queued
// auto-completion tasks, so a missed tick only delays a transition.
//
// # Error Handling
//
// Sweep failures are logged and counted; the next tick retries. Overlapping
// runs are skipped.
package jobs
