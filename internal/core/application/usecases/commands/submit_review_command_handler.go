package commands

import (
	"context"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
)

type SubmitReviewCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	dispatcher services.NotificationDispatcher
}

func NewSubmitReviewCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) SubmitReviewCommandHandler {
	return SubmitReviewCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		dispatcher: services.NewNotificationDispatcher(),
	}
}

// Handle attaches the owner's review to a Completed order. A second review
// fails with errs.StateIsInvalidError.
func (h SubmitReviewCommandHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	review := cmd.Review()
	if err = o.SubmitReview(cmd.Actor(), review); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	err = notify(ctx, uow, o, h.clock.Now(),
		func(o *order.Order, r services.Recipients, now time.Time) ([]*notification.Notification, error) {
			return h.dispatcher.ReviewLeft(o, r, review.Rating(), now)
		})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
