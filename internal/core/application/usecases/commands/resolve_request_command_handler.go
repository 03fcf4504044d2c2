package commands

import (
	"context"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
)

// ResolveRequestCommandHandler approves or rejects pending requests. Only the
// counterparty of the requester may resolve; the outcome is reported to the
// side that raised the request.
//
// Two resolvers racing on the same order both load version n; the loser's
// Update fails with errs.VersionIsInvalidError and its transaction, including
// its notifications, rolls back.
type ResolveRequestCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	dispatcher services.NotificationDispatcher
}

func NewResolveRequestCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) ResolveRequestCommandHandler {
	return ResolveRequestCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		dispatcher: services.NewNotificationDispatcher(),
	}
}

func (h ResolveRequestCommandHandler) Approve(ctx context.Context, cmd ApproveRequestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.resolve(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) (composeFunc, error) {
		req, err := o.ApproveRequest(cmd.Actor(), now)
		if err != nil {
			return nil, err
		}
		return func(o *order.Order, r services.Recipients, now time.Time) ([]*notification.Notification, error) {
			return h.dispatcher.RequestApproved(o, r, req, now)
		}, nil
	})
}

func (h ResolveRequestCommandHandler) Reject(ctx context.Context, cmd RejectRequestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.resolve(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) (composeFunc, error) {
		req, err := o.RejectRequest(cmd.Actor(), cmd.Message(), now)
		if err != nil {
			return nil, err
		}
		return func(o *order.Order, r services.Recipients, now time.Time) ([]*notification.Notification, error) {
			return h.dispatcher.RequestRejected(o, r, req, cmd.Message(), now)
		}, nil
	})
}

func (h ResolveRequestCommandHandler) resolve(
	ctx context.Context,
	orderID kernel.UUID,
	apply func(o *order.Order, now time.Time) (composeFunc, error),
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	compose, err := apply(o, now)
	if err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = notify(ctx, uow, o, now, compose); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
