package commands

import (
	"errors"
	"strings"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var (
	ErrApproveRequestCommandIsNotConstructed = errors.New(
		"ApproveRequestCommand must be created via NewApproveRequestCommand constructor",
	)
	ErrRejectRequestCommandIsNotConstructed = errors.New(
		"RejectRequestCommand must be created via NewRejectRequestCommand constructor",
	)
)

// ApproveRequestCommand accepts the pending request of an order.
type ApproveRequestCommand struct { //nolint:recvcheck //using for validation
	actor   order.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewApproveRequestCommand(actor order.Actor, orderID kernel.UUID) (ApproveRequestCommand, error) {
	actor, orderID, err := resolutionTarget(actor, orderID)
	if err != nil {
		return ApproveRequestCommand{}, err
	}
	return ApproveRequestCommand{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ApproveRequestCommand) Validate() error {
	return c.guard.Validate(ErrApproveRequestCommandIsNotConstructed)
}

func (c ApproveRequestCommand) Actor() order.Actor   { return c.actor }
func (c ApproveRequestCommand) OrderID() kernel.UUID { return c.orderID }

// RejectRequestCommand declines the pending request with an optional message.
type RejectRequestCommand struct { //nolint:recvcheck //using for validation
	actor   order.Actor
	orderID kernel.UUID
	message string

	guard guard.ConstructorGuard
}

func NewRejectRequestCommand(actor order.Actor, orderID kernel.UUID, message string) (RejectRequestCommand, error) {
	actor, orderID, err := resolutionTarget(actor, orderID)
	if err != nil {
		return RejectRequestCommand{}, err
	}
	return RejectRequestCommand{
		actor:   actor,
		orderID: orderID,
		message: strings.TrimSpace(message),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RejectRequestCommand) Validate() error {
	return c.guard.Validate(ErrRejectRequestCommandIsNotConstructed)
}

func (c RejectRequestCommand) Actor() order.Actor   { return c.actor }
func (c RejectRequestCommand) OrderID() kernel.UUID { return c.orderID }
func (c RejectRequestCommand) Message() string      { return c.message }

func resolutionTarget(actor order.Actor, orderID kernel.UUID) (order.Actor, kernel.UUID, error) {
	var orderErr error
	if err := orderID.Validate(); err != nil {
		orderErr = errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	if err := errors.Join(validateActor(actor), orderErr); err != nil {
		return nil, kernel.UUID{}, err
	}
	return actor, orderID, nil
}
