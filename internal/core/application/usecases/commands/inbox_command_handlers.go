package commands

import (
	"context"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/message"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
	"tagging/internal/pkg/errs"
)

// InboxCommandHandler handles order chat and notification bookkeeping.
type InboxCommandHandler struct {
	uowFactory InboxUoWFactory
	clock      kernel.Clock
	dispatcher services.NotificationDispatcher
}

func NewInboxCommandHandler(uowFactory InboxUoWFactory, clock kernel.Clock) InboxCommandHandler {
	return InboxCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		dispatcher: services.NewNotificationDispatcher(),
	}
}

// SendMessage stores the message and notifies the other party: the owner when
// an admin writes, every admin when the owner writes.
func (h InboxCommandHandler) SendMessage(ctx context.Context, cmd SendMessageCommand) error {
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
	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	m, err := message.NewMessage(o.ID(), o.UserID(), cmd.Actor(), cmd.Text(), now)
	if err != nil {
		return err
	}
	if err = uow.MessageRepository().Add(ctx, m); err != nil {
		return err
	}

	fromAdmin := cmd.Actor().IsAdmin() && !o.IsOwnedBy(cmd.Actor())
	err = notify(ctx, uow, o, now,
		func(o *order.Order, r services.Recipients, now time.Time) ([]*notification.Notification, error) {
			return h.dispatcher.NewMessage(o, r, fromAdmin, now)
		})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// ReadOrderMessages returns how many messages were marked read.
func (h InboxCommandHandler) ReadOrderMessages(ctx context.Context, cmd ReadOrderMessagesCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return 0, err
	}
	if !message.CanAccess(cmd.Actor(), o.UserID()) {
		return 0, errs.NewNotAuthorizedError("read messages")
	}

	changed, err := uow.MessageRepository().MarkReadForReader(ctx, o.ID(), cmd.Actor().ID())
	if err != nil {
		return 0, err
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return changed, nil
}

func (h InboxCommandHandler) MarkNotificationRead(ctx context.Context, cmd MarkNotificationReadCommand) error {
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

	repo := uow.NotificationRepository()
	n, err := repo.Get(ctx, cmd.NotificationID())
	if err != nil {
		return err
	}
	if err = n.MarkAsRead(cmd.Actor().ID()); err != nil {
		return err
	}
	if err = repo.Update(ctx, n); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h InboxCommandHandler) MarkAllNotificationsRead(ctx context.Context, cmd MarkAllReadCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.markAll(ctx, func(uow InboxUoW) (int64, error) {
		return uow.NotificationRepository().MarkAllRead(ctx, cmd.Actor().ID())
	})
}

func (h InboxCommandHandler) MarkAllMessagesRead(ctx context.Context, cmd MarkAllReadCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.markAll(ctx, func(uow InboxUoW) (int64, error) {
		return uow.MessageRepository().MarkAllRead(ctx, cmd.Actor().ID(), cmd.Actor().IsAdmin())
	})
}

func (h InboxCommandHandler) markAll(ctx context.Context, mark func(uow InboxUoW) (int64, error)) (int64, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	changed, err := mark(uow)
	if err != nil {
		return 0, err
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return changed, nil
}
