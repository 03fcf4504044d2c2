package commands

import (
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand is the owner accepting a delivery.
type CompleteOrderCommand struct { //nolint:recvcheck //using for validation
	actor   order.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteOrderCommand(actor order.Actor, orderID kernel.UUID) (CompleteOrderCommand, error) {
	cmd := CompleteOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setOrderID(orderID),
	); err != nil {
		return CompleteOrderCommand{}, err
	}

	return cmd, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

func (c CompleteOrderCommand) Actor() order.Actor   { return c.actor }
func (c CompleteOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c *CompleteOrderCommand) setActor(actor order.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CompleteOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	c.orderID = id
	return nil
}
