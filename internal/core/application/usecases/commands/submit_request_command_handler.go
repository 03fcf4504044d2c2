package commands

import (
	"context"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
)

// SubmitRequestCommandHandler moves the order into dispute and notifies the
// counterparty: the owner for admin raised requests, every admin otherwise.
type SubmitRequestCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	dispatcher services.NotificationDispatcher
}

func NewSubmitRequestCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) SubmitRequestCommandHandler {
	return SubmitRequestCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		dispatcher: services.NewNotificationDispatcher(),
	}
}

func (h SubmitRequestCommandHandler) Handle(ctx context.Context, cmd SubmitRequestCommand) error {
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

	now := h.clock.Now()
	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = o.SubmitRequest(cmd.Actor(), cmd.Request(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	// The stored request carries the raisedByAdmin flag the aggregate derived.
	pending := o.PendingRequest()
	err = notify(ctx, uow, o, now,
		func(o *order.Order, r services.Recipients, now time.Time) ([]*notification.Notification, error) {
			return h.dispatcher.RequestSubmitted(o, r, *pending, now)
		})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
