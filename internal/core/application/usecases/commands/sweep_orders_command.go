package commands

import (
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var (
	ErrSweepOrdersCommandIsNotConstructed = errors.New(
		"SweepOrdersCommand must be created via NewSweepOrdersCommand constructor",
	)
	ErrAutoCompleteOrderCommandIsNotConstructed = errors.New(
		"AutoCompleteOrderCommand must be created via NewAutoCompleteOrderCommand constructor",
	)
)

// SweepOrdersCommand reconciles due dates and auto-completes stale deliveries
// across all orders.
type SweepOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewSweepOrdersCommand() SweepOrdersCommand {
	return SweepOrdersCommand{guard: guard.NewConstructorGuard()}
}

func (c SweepOrdersCommand) Validate() error {
	return c.guard.Validate(ErrSweepOrdersCommandIsNotConstructed)
}

// SweepResult counts the orders a sweep changed.
type SweepResult struct {
	MarkedLate    int
	AutoCompleted int
}

// AutoCompleteOrderCommand auto-completes one order if its grace period is over.
type AutoCompleteOrderCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAutoCompleteOrderCommand(orderID kernel.UUID) (AutoCompleteOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AutoCompleteOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	return AutoCompleteOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c AutoCompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrAutoCompleteOrderCommandIsNotConstructed)
}

func (c AutoCompleteOrderCommand) OrderID() kernel.UUID { return c.orderID }
