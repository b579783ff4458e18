package services

import (
	"context"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

type NotificationService struct {
	store  *repositories.Store
	unread *cache.UnreadCounter
	now    Clock
}

// NotificationPage is one page of a user's notifications
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
}

func NewNotificationService(store *repositories.Store, unread *cache.UnreadCounter, now Clock) *NotificationService {
	if now == nil {
		now = SystemClock
	}
	return &NotificationService{store: store, unread: unread, now: now}
}

// List returns the page newest first, as it was before viewing, then marks every
// notification of the user read and flips is_read on their answered reports.
func (s *NotificationService) List(ctx context.Context, userID uint, page, limit int) (*NotificationPage, error) {
	page, limit = normalizePage(page, limit)
	result := &NotificationPage{Page: page, Limit: limit}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		items, total, err := tx.Notifications.GetByRecipientID(ctx, userID, page, limit)
		if err != nil {
			return err
		}
		if _, err := tx.Notifications.MarkAllAsRead(ctx, userID); err != nil {
			return err
		}
		if _, err := tx.Reports.MarkRepliedAsRead(ctx, userID); err != nil {
			return err
		}
		result.Notifications = items
		result.Total = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Notifications == nil {
		result.Notifications = []models.Notification{}
	}
	s.unread.Invalidate(ctx, userID)
	return result, nil
}

// Grouped buckets the user's notifications into today, yesterday, this week and older
func (s *NotificationService) Grouped(ctx context.Context, userID uint) (*models.NotificationGroups, error) {
	return s.store.Notifications.GetGrouped(ctx, userID, s.now())
}

// UnreadCount is the number of unread notifications, served from Redis when cached
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.unread.GetOrLoad(ctx, userID, func(ctx context.Context) (int64, error) {
		return s.store.Notifications.GetUnreadCount(ctx, userID)
	})
}

// MarkAsRead marks one of the caller's notifications read
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uint) error {
	ok, err := s.store.Notifications.MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Notification", notificationID)
	}
	s.unread.Invalidate(ctx, userID)
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	n, err := s.store.Notifications.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.unread.Invalidate(ctx, userID)
	return n, nil
}
