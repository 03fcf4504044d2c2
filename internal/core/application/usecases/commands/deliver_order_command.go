package commands

import (
	"errors"
	"io"
	"strings"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrDeliverOrderCommandIsNotConstructed = errors.New(
	"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
)

// Upload is one file attached to a delivery.
type Upload struct {
	Filename string
	Content  io.Reader
}

// DeliverOrderCommand hands the finished work of an order to its owner.
type DeliverOrderCommand struct { //nolint:recvcheck //using for validation
	actor    order.Actor
	orderID  kernel.UUID
	response string
	uploads  []Upload

	guard guard.ConstructorGuard
}

func NewDeliverOrderCommand(
	actor order.Actor,
	orderID kernel.UUID,
	response string,
	uploads []Upload,
) (DeliverOrderCommand, error) {
	cmd := DeliverOrderCommand{
		response: strings.TrimSpace(response),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setOrderID(orderID),
		cmd.setUploads(uploads),
	); err != nil {
		return DeliverOrderCommand{}, err
	}

	return cmd, nil
}

func (c DeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOrderCommandIsNotConstructed)
}

func (c DeliverOrderCommand) Actor() order.Actor   { return c.actor }
func (c DeliverOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c DeliverOrderCommand) Response() string     { return c.response }
func (c DeliverOrderCommand) Uploads() []Upload    { return append([]Upload(nil), c.uploads...) }

func (c *DeliverOrderCommand) setActor(actor order.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *DeliverOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	c.orderID = id
	return nil
}

func (c *DeliverOrderCommand) setUploads(uploads []Upload) error {
	kept := make([]Upload, 0, len(uploads))
	for _, u := range uploads {
		if u.Content == nil || strings.TrimSpace(u.Filename) == "" {
			continue
		}
		kept = append(kept, u)
	}
	if len(kept) == 0 {
		return errs.NewValueIsRequiredError("delivery files")
	}
	c.uploads = kept
	return nil
}
