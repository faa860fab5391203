package services

import (
	"context"

	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/db/repos"
	"github.com/fittrackd/fittrackd/internal/logger"
)

// Notification creates in-app notifications for users
type Notification struct {
	repo *repos.NotificationRepository
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(repo *repos.NotificationRepository) *Notification {
	return &Notification{
		repo: repo,
	}
}

// Notify creates a notification row for a user. Failures are logged and
// swallowed: notifications are a side effect, not part of the operation's
// contract.
func (s *Notification) Notify(ctx context.Context, userID uint, eventType models.NotificationType, objectKind string, objectID uint) {
	notification := &models.Notification{
		UserID:     userID,
		Type:       eventType,
		ObjectKind: objectKind,
		ObjectID:   objectID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		logger.Errorf("Failed to create %s notification for user %d: %v", eventType, userID, err)
	}
}

// ListForUser retrieves the notifications of a user, newest first
func (s *Notification) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead marks a notification as read
func (s *Notification) MarkRead(ctx context.Context, id uint) error {
	return s.repo.MarkRead(ctx, id)
}
