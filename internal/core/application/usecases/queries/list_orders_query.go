// Package queries contains read operations for retrieving system state.
// Queries bypass the aggregates where a flat read model is enough and never
// write.
package queries

import (
	"errors"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists the orders visible to an actor: their own orders, or
// every order for admins. A nil status lists all statuses.
//
// Example:
//
//	status := order.Delivered
//	query, err := NewListOrdersQuery(currentUser, &status)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	actor  order.Actor
	status *order.Status

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(actor order.Actor, status *order.Status) (ListOrdersQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListOrdersQuery{}, err
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	return ListOrdersQuery{actor: actor, status: status, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() order.Actor    { return q.actor }
func (q ListOrdersQuery) Status() *order.Status { return q.status }

// OrderSummary is one row of an order list. PackageName is empty and Price
// zero when the package was deleted.
type OrderSummary struct {
	ID          kernel.UUID
	UserID      kernel.UUID
	Username    string
	PackageID   kernel.UUID
	PackageName string
	Price       kernel.Money
	Details     string
	Status      order.Status
	DueDate     *time.Time
	CreatedAt   time.Time
	HasPending  bool
}

func validateActor(actor order.Actor) error {
	if actor == nil {
		return errs.NewValueIsRequiredError("actor")
	}
	if err := actor.ID().Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actor", err)
	}
	return nil
}
