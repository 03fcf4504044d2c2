package messagerepo

import (
	"context"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/message"
	"tagging/internal/core/ports"

	"gorm.io/gorm"
)

// GormMessageRepository implements ports.MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

var _ ports.MessageRepository = (*GormMessageRepository)(nil)

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Add(ctx context.Context, m *message.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	dto := fromDomain(m)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormMessageRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*message.Message, error) {
	var dtos []MessageDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	messages := make([]*message.Message, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormMessageRepository) MarkReadForReader(ctx context.Context, orderID, readerID kernel.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("order_id = ? AND sender_id <> ? AND is_read = ?", orderID.Bytes(), readerID.Bytes(), false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *GormMessageRepository) GetUnreadCount(ctx context.Context, userID kernel.UUID, isAdmin bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN (?)", r.unreadFor(userID, isAdmin)).
		Count(&count).Error
	return count, err
}

func (r *GormMessageRepository) MarkAllRead(ctx context.Context, userID kernel.UUID, isAdmin bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN (?)", r.unreadFor(userID, isAdmin)).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// unreadFor selects the ids of unread messages sent to userID. Customers only
// see the chats of their own orders.
func (r *GormMessageRepository) unreadFor(userID kernel.UUID, isAdmin bool) *gorm.DB {
	q := r.db.Table("messages").
		Select("messages.id").
		Joins("JOIN orders ON orders.id = messages.order_id").
		Where("messages.is_read = ? AND messages.sender_id <> ?", false, userID.Bytes())
	if !isAdmin {
		q = q.Where("orders.user_id = ?", userID.Bytes())
	}
	return q
}
