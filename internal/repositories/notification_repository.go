package repositories

import (
	"context"
	"time"

	"github.com/anonto42/pixora/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	DeleteLikeNotifications(ctx context.Context, recipientID, actorID, postID uint) (int64, error)
	GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetGrouped(ctx context.Context, recipientID uint, now time.Time) (*models.NotificationGroups, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, recipientID uint) (bool, error)
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Omit("Recipient", "Actor", "Post", "Comment", "Report").Create(notification).Error
}

// DeleteLikeNotifications hard-deletes every like notification matching the triple
func (r *postgresNotificationRepository) DeleteLikeNotifications(ctx context.Context, recipientID, actorID, postID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("recipient_id = ? AND actor_id = ? AND post_id = ? AND type = ?",
			recipientID, actorID, postID, models.NotificationLike).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Preload("Actor.Profile").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetGrouped(ctx context.Context, recipientID uint, now time.Time) (*models.NotificationGroups, error) {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	groups := &models.NotificationGroups{}
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Preload("Actor.Profile").
			Where("recipient_id = ?", recipientID).
			Order("created_at DESC, id DESC")
	}

	if err := base().Where("created_at >= ?", todayStart).Find(&groups.Today).Error; err != nil {
		return nil, err
	}
	if err := base().Where("created_at >= ? AND created_at < ?", yesterdayStart, todayStart).Find(&groups.Yesterday).Error; err != nil {
		return nil, err
	}
	// this week excludes today and yesterday
	if err := base().Where("created_at >= ? AND created_at < ?", weekStart, yesterdayStart).Find(&groups.ThisWeek).Error; err != nil {
		return nil, err
	}
	if err := base().Where("created_at < ?", weekStart).Limit(50).Find(&groups.Older).Error; err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips one notification, only when it belongs to recipientID
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
