package services

import (
	"context"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/errors"
)

type NotificationService struct {
	store *repository.Store
}

func NewNotificationService(store *repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, page repository.Page) ([]models.Notification, int64, error) {
	notifications, total, err := s.store.Notifications.ListByUser(ctx, userID, unreadOnly, page)
	if err != nil {
		return nil, 0, errors.Internal("failed to list notifications", err)
	}
	return notifications, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.store.Notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Internal("failed to count notifications", err)
	}
	return count, nil
}

// MarkRead reports NOT_FOUND for notifications owned by another user.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	notification, err := s.store.Notifications.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, errors.Internal("failed to load notification", err)
	}
	if notification == nil {
		return nil, errors.NotFound("notification not found")
	}
	if notification.Read {
		return notification, nil
	}

	if err := s.store.Notifications.MarkRead(ctx, id); err != nil {
		return nil, errors.Internal("failed to update notification", err)
	}
	notification.Read = true
	return notification, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	updated, err := s.store.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, errors.Internal("failed to update notifications", err)
	}
	return updated, nil
}
