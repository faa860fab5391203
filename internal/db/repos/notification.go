package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fittrackd/fittrackd/internal/db/models"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create creates a new notification in the database
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// ListByUser retrieves the notifications of a user, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where(models.Notification{UserID: userID}).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkRead marks a notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}
