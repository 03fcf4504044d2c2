package commands

import (
	"context"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/services"
)

type CompleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	dispatcher services.NotificationDispatcher
}

func NewCompleteOrderCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		dispatcher: services.NewNotificationDispatcher(),
	}
}

// Handle completes a Delivered order on behalf of its owner and notifies the admins.
func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
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
	if err = o.Complete(cmd.Actor(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = notify(ctx, uow, o, now, h.dispatcher.Completed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
