package commands

import (
	"context"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/model/payment"
	"tagging/internal/core/domain/services"
)

// CreateOrderCommandHandler validates the card, checks the tags against the
// package and stores the new Active order together with one "New Order
// Placed" notification per admin.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	dispatcher services.NotificationDispatcher
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory, clock kernel.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		dispatcher: services.NewNotificationDispatcher(),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()
	card := cmd.Card()
	if _, err := payment.NewCard(card.Number, card.Holder, card.Expiry, card.CVV, now); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pkg, err := uow.PackageRepository().Get(ctx, cmd.PackageID())
	if err != nil {
		return err
	}
	tags := cmd.Tags()
	if err = pkg.AcceptsTags(len(tags)); err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Actor().ID(), pkg.ID(), pkg.DeliveryDays(), cmd.Details(), tags, now)
	if err != nil {
		return err
	}
	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = notify(ctx, uow, o, now, h.dispatcher.OrderPlaced); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
