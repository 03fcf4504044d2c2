package commands

import (
	"context"
	"errors"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
	"tagging/internal/pkg/errs"

	"go.uber.org/zap"
)

// SweepOrdersCommandHandler applies the time driven transitions. It runs from
// the cron job, before order reads and as the fallback for lost queue tasks,
// so every step is idempotent: a second sweep at the same instant changes
// nothing.
type SweepOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	completer  autoCompleter
	clock      kernel.Clock
	log        *zap.SugaredLogger
}

func NewSweepOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	log *zap.SugaredLogger,
) SweepOrdersCommandHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return SweepOrdersCommandHandler{
		uowFactory: uowFactory,
		completer:  newAutoCompleter(uowFactory),
		clock:      clock,
		log:        log,
	}
}

func (h SweepOrdersCommandHandler) Handle(ctx context.Context, cmd SweepOrdersCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	now := h.clock.Now()
	late, err := h.reconcileLateness(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}
	result := SweepResult{MarkedLate: late}

	candidates, err := h.awaitingCompletion(ctx, now)
	if err != nil {
		return result, err
	}

	for _, id := range candidates {
		applied, completeErr := h.completer.complete(ctx, id, now)
		switch {
		case errors.Is(completeErr, errs.ErrVersionIsInvalid):
			h.log.Debugw("auto_complete_skipped_conflict", "order_id", id.String())
		case completeErr != nil:
			return result, completeErr
		case applied:
			result.AutoCompleted++
		}
	}

	return result, nil
}

func (h SweepOrdersCommandHandler) reconcileLateness(ctx context.Context, now time.Time) (int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	changed, err := uow.OrderRepository().UpdateLateOrders(ctx, now)
	if err != nil {
		return 0, err
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return changed, nil
}

func (h SweepOrdersCommandHandler) awaitingCompletion(ctx context.Context, now time.Time) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	orders, err := uow.OrderRepository().GetAwaitingAutoCompletion(ctx, now.Add(-order.AutoCompleteGrace))
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

// AutoCompleteOrderCommandHandler serves the delayed queue task of one order.
type AutoCompleteOrderCommandHandler struct {
	completer autoCompleter
	clock     kernel.Clock
}

func NewAutoCompleteOrderCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) AutoCompleteOrderCommandHandler {
	return AutoCompleteOrderCommandHandler{
		completer: newAutoCompleter(uowFactory),
		clock:     clock,
	}
}

// Handle reports whether the order was completed. Orders that are no longer
// Delivered, or whose latest delivery is still within the grace period, are
// left alone.
func (h AutoCompleteOrderCommandHandler) Handle(ctx context.Context, cmd AutoCompleteOrderCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}
	return h.completer.complete(ctx, cmd.OrderID(), h.clock.Now())
}

type autoCompleter struct {
	uowFactory OrderUoWFactory
	dispatcher services.NotificationDispatcher
}

func newAutoCompleter(uowFactory OrderUoWFactory) autoCompleter {
	return autoCompleter{uowFactory: uowFactory, dispatcher: services.NewNotificationDispatcher()}
}

func (c autoCompleter) complete(ctx context.Context, orderID kernel.UUID, now time.Time) (bool, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !o.AutoComplete(now, order.AutoCompleteGrace) {
		return false, nil
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return false, err
	}
	if err = notify(ctx, uow, o, now, c.dispatcher.AutoCompleted); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
