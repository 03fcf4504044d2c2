package ports

import (
	"context"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/message"
	"tagging/internal/core/domain/model/notification"
)

// DefaultNotificationLimit caps GetByUser when the caller passes a limit <= 0.
const DefaultNotificationLimit = 50

type NotificationRepository interface {
	Add(ctx context.Context, notes ...*notification.Notification) error
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)
	Update(ctx context.Context, n *notification.Notification) error

	// GetByUser returns the newest notifications first.
	GetByUser(ctx context.Context, userID kernel.UUID, limit int) ([]*notification.Notification, error)
	GetUnreadCount(ctx context.Context, userID kernel.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userID kernel.UUID) (int64, error)
}

type MessageRepository interface {
	Add(ctx context.Context, m *message.Message) error

	// GetByOrder returns the chat of an order, oldest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*message.Message, error)

	// MarkReadForReader marks every message of the order not sent by readerID as read.
	MarkReadForReader(ctx context.Context, orderID, readerID kernel.UUID) (int64, error)

	// GetUnreadCount counts unread messages not sent by userID, across all
	// orders for admins and across the user's own orders otherwise.
	GetUnreadCount(ctx context.Context, userID kernel.UUID, isAdmin bool) (int64, error)
	MarkAllRead(ctx context.Context, userID kernel.UUID, isAdmin bool) (int64, error)
}
