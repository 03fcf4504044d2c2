// Package ports defines the contracts between the tagging domain and its
// infrastructure: repositories, the unit of work, file storage, the task
// scheduler and the analytics cache.
package ports

import (
	"context"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
)

// RevenueFilter selects the orders whose package prices are summed.
// Nil fields do not filter.
type RevenueFilter struct {
	UserID         *kernel.UUID
	Statuses       []order.Status
	CompletedSince *time.Time
	CancelledSince *time.Time
}

// OrderRepository defines the persistence contract for order aggregates.
// Loaded orders carry their tags and deliveries; events are read separately.
type OrderRepository interface {
	// Add persists a new order with its uncommitted deliveries and events.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update replaces the order row, appends uncommitted deliveries and events
	// and bumps the version. A concurrent writer that saved first makes it fail
	// with errs.VersionIsInvalidError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	GetByUser(ctx context.Context, userID kernel.UUID) ([]*order.Order, error)
	GetByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
	GetByUserAndStatus(ctx context.Context, userID kernel.UUID, status order.Status) ([]*order.Order, error)
	GetAll(ctx context.Context) ([]*order.Order, error)

	// GetEvents returns the persisted audit trail, oldest first.
	GetEvents(ctx context.Context, orderID kernel.UUID) ([]*order.Event, error)

	// UpdateLateOrders reconciles the Late status of every order with a due
	// date against now and returns how many orders changed.
	UpdateLateOrders(ctx context.Context, now time.Time) (int, error)

	// GetAwaitingAutoCompletion returns Delivered orders whose latest delivery
	// happened before cutoff.
	GetAwaitingAutoCompletion(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// GetCompletedOrders returns Completed orders, optionally for one user and
	// completed at or after since.
	GetCompletedOrders(ctx context.Context, userID *kernel.UUID, since *time.Time) ([]*order.Order, error)

	// GetRevenue sums the package prices of the matching orders.
	GetRevenue(ctx context.Context, filter RevenueFilter) (kernel.Money, error)

	// GetFacts returns the analytics read model, optionally for one user.
	GetFacts(ctx context.Context, userID *kernel.UUID) ([]services.OrderFact, error)
}
