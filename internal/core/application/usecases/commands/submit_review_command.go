package commands

import (
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var ErrSubmitReviewCommandIsNotConstructed = errors.New(
	"SubmitReviewCommand must be created via NewSubmitReviewCommand constructor",
)

type SubmitReviewCommand struct { //nolint:recvcheck //using for validation
	actor   order.Actor
	orderID kernel.UUID
	review  order.Review

	guard guard.ConstructorGuard
}

// NewSubmitReviewCommand rejects ratings outside 1..5.
func NewSubmitReviewCommand(actor order.Actor, orderID kernel.UUID, rating int, text string) (SubmitReviewCommand, error) {
	cmd := SubmitReviewCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setOrderID(orderID),
		cmd.setReview(rating, text),
	); err != nil {
		return SubmitReviewCommand{}, err
	}

	return cmd, nil
}

func (c SubmitReviewCommand) Validate() error {
	return c.guard.Validate(ErrSubmitReviewCommandIsNotConstructed)
}

func (c SubmitReviewCommand) Actor() order.Actor   { return c.actor }
func (c SubmitReviewCommand) OrderID() kernel.UUID { return c.orderID }
func (c SubmitReviewCommand) Review() order.Review { return c.review }

func (c *SubmitReviewCommand) setActor(actor order.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *SubmitReviewCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	c.orderID = id
	return nil
}

func (c *SubmitReviewCommand) setReview(rating int, text string) error {
	review, err := order.NewReview(rating, text)
	if err != nil {
		return err
	}
	c.review = review
	return nil
}
