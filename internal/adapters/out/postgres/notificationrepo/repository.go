package notificationrepo

import (
	"context"
	"errors"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements ports.NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

var _ ports.NotificationRepository = (*GormNotificationRepository)(nil)

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add inserts all notifications in one statement. Adding none is a no-op.
func (r *GormNotificationRepository) Add(ctx context.Context, notes ...*notification.Notification) error {
	if len(notes) == 0 {
		return nil
	}

	dtos := make([]NotificationDTO, 0, len(notes))
	for _, n := range notes {
		if err := n.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(n))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// Update persists the read flag, the only mutable field.
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", n.ID().Bytes()).
		Update("is_read", n.IsRead())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", n.ID().String())
	}
	return nil
}

func (r *GormNotificationRepository) GetByUser(
	ctx context.Context,
	userID kernel.UUID,
	limit int,
) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = ports.DefaultNotificationLimit
	}

	var dtos []NotificationDTO
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", userID.Bytes()).
		Order("created_at DESC, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	notes := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (r *GormNotificationRepository) GetUnreadCount(ctx context.Context, userID kernel.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("recipient_id = ? AND is_read = ?", userID.Bytes(), false).
		Count(&count).Error
	return count, err
}

// MarkAllRead returns the number of notifications that changed.
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID kernel.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("recipient_id = ? AND is_read = ?", userID.Bytes(), false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
