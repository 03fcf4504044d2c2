package ports

import (
	"context"
	"io"
	"time"

	"tagging/internal/core/domain/model/kernel"
)

// StoredFile describes a file written by FileStorage.
type StoredFile struct {
	Name             string
	OriginalFilename string
	Size             int64
}

// FileStorage keeps uploaded delivery assets.
type FileStorage interface {
	// Save writes r under a generated unique name derived from prefix, the
	// optional owner, the current time and originalName.
	Save(ctx context.Context, r io.Reader, originalName, prefix string, owner *kernel.UUID) (StoredFile, error)

	// Path resolves a stored name to a location that can be served.
	Path(name string) (string, error)
	Exists(name string) bool
}

// TaskScheduler enqueues deferred work.
type TaskScheduler interface {
	// ScheduleAutoCompletion asks for the order to be auto-completed after delay.
	// The task is a hint; the sweep completes the order anyway.
	ScheduleAutoCompletion(ctx context.Context, orderID kernel.UUID, delay time.Duration) error
}

// AnalyticsCache stores JSON snapshots of computed statistics.
type AnalyticsCache interface {
	// GetJSON reports whether key was found and decoded into dst.
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}
