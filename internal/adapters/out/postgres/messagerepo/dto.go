// Package messagerepo persists order chat messages.
package messagerepo

import (
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/message"

	"github.com/google/uuid"
)

type MessageDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	SenderID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Text      string    `gorm:"type:text;not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index;not null"`
}

func (MessageDTO) TableName() string {
	return "messages"
}

func fromDomain(m *message.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID().Bytes(),
		OrderID:   m.OrderID().Bytes(),
		SenderID:  m.SenderID().Bytes(),
		Text:      m.Text(),
		IsRead:    m.IsRead(),
		CreatedAt: m.CreatedAt().UTC(),
	}
}

func toDomain(dto MessageDTO) (*message.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}
	return message.RestoreMessage(id, orderID, senderID, dto.Text, dto.IsRead, dto.CreatedAt), nil
}
