package commands

import (
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrSubmitRequestCommandIsNotConstructed = errors.New(
	"SubmitRequestCommand must be created via NewSubmitRequestCommand constructor",
)

// SubmitRequestCommand raises a cancellation, extension, revision or dispute
// request on an order. Build the request with order.NewCancellationRequest,
// order.NewExtensionRequest, order.NewRevisionRequest or order.NewDisputeRequest.
type SubmitRequestCommand struct { //nolint:recvcheck //using for validation
	actor   order.Actor
	orderID kernel.UUID
	request order.PendingRequest

	guard guard.ConstructorGuard
}

func NewSubmitRequestCommand(
	actor order.Actor,
	orderID kernel.UUID,
	request order.PendingRequest,
) (SubmitRequestCommand, error) {
	cmd := SubmitRequestCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setOrderID(orderID),
		cmd.setRequest(request),
	); err != nil {
		return SubmitRequestCommand{}, err
	}

	return cmd, nil
}

func (c SubmitRequestCommand) Validate() error {
	return c.guard.Validate(ErrSubmitRequestCommandIsNotConstructed)
}

func (c SubmitRequestCommand) Actor() order.Actor            { return c.actor }
func (c SubmitRequestCommand) OrderID() kernel.UUID          { return c.orderID }
func (c SubmitRequestCommand) Request() order.PendingRequest { return c.request }

func (c *SubmitRequestCommand) setActor(actor order.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *SubmitRequestCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	c.orderID = id
	return nil
}

func (c *SubmitRequestCommand) setRequest(req order.PendingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	c.request = req
	return nil
}
