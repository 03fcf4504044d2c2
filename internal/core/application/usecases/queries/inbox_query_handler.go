package queries

import (
	"context"

	"tagging/internal/core/domain/model/message"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"
)

type InboxQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewInboxQueryHandler(uowFactory ports.UnitOfWorkFactory) InboxQueryHandler {
	return InboxQueryHandler{uowFactory: uowFactory}
}

// ListNotifications returns the newest notifications of the actor first.
func (h InboxQueryHandler) ListNotifications(ctx context.Context, query InboxQuery) ([]*notification.Notification, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.uowFactory.Create().NotificationRepository().GetByUser(ctx, query.Actor().ID(), query.Limit())
}

// UnreadCounts counts unread notifications and unread chat messages. Admins
// see the messages of every order, customers only those of their own orders.
func (h InboxQueryHandler) UnreadCounts(ctx context.Context, query InboxQuery) (UnreadCounts, error) {
	if err := query.Validate(); err != nil {
		return UnreadCounts{}, err
	}

	uow := h.uowFactory.Create()
	actor := query.Actor()

	notes, err := uow.NotificationRepository().GetUnreadCount(ctx, actor.ID())
	if err != nil {
		return UnreadCounts{}, err
	}
	messages, err := uow.MessageRepository().GetUnreadCount(ctx, actor.ID(), actor.IsAdmin())
	if err != nil {
		return UnreadCounts{}, err
	}
	return UnreadCounts{Notifications: notes, Messages: messages}, nil
}

// ListOrderMessages returns the chat oldest first. Reading does not mark
// anything; see commands.InboxCommandHandler.ReadOrderMessages.
func (h InboxQueryHandler) ListOrderMessages(ctx context.Context, query OrderMessagesQuery) ([]*message.Message, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	if !message.CanAccess(query.Actor(), o.UserID()) {
		return nil, errs.NewNotAuthorizedError("read messages")
	}
	return uow.MessageRepository().GetByOrder(ctx, o.ID())
}
