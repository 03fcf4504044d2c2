// Package notificationrepo persists inbox notifications.
package notificationrepo

import (
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

type NotificationDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID  `gorm:"type:uuid;index:idx_notification_recipient;not null"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	Type        string     `gorm:"size:64;not null"`
	Title       string     `gorm:"size:255;not null"`
	Message     string     `gorm:"type:text"`
	IsRead      bool       `gorm:"index:idx_notification_recipient;not null;default:false"`
	CreatedAt   time.Time  `gorm:"index;not null"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:          n.ID().Bytes(),
		RecipientID: n.RecipientID().Bytes(),
		Type:        string(n.Type()),
		Title:       n.Title(),
		Message:     n.Message(),
		IsRead:      n.IsRead(),
		CreatedAt:   n.CreatedAt().UTC(),
	}
	if id := n.OrderID(); id != nil {
		raw := id.Bytes()
		dto.OrderID = &raw
	}
	return dto
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		parsed, parseErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if parseErr != nil {
			return nil, parseErr
		}
		orderID = &parsed
	}

	return notification.RestoreNotification(
		id,
		recipientID,
		orderID,
		notification.Type(dto.Type),
		dto.Title,
		dto.Message,
		dto.IsRead,
		dto.CreatedAt,
	), nil
}
