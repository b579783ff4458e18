package repositories

import (
	"context"
	"time"

	"github.com/anonto42/pixora/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines the interface for story operations.
// Visibility queries take the expiry cutoff (now minus the story lifetime) explicitly;
// a story is returned only when it was created strictly after the cutoff.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id uint) (*models.Story, error)
	GetVisibleStoriesByUserID(ctx context.Context, userID uint, cutoff time.Time) ([]models.Story, error)
	GetActiveOwnerIDs(ctx context.Context, cutoff time.Time) ([]uint, error)
	AddView(ctx context.Context, storyID, userID uint, at time.Time) (bool, error)
	GetViewsCount(ctx context.Context, storyID uint) (int64, error)
	GetViewers(ctx context.Context, storyID uint) ([]models.User, error)
	DeleteStory(ctx context.Context, id uint) error
}

type storyRepository struct {
	db *gorm.DB
}

func NewPostgresStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) CreateStory(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Omit("User").Create(story).Error
}

func (r *storyRepository) GetStoryByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// GetVisibleStoriesByUserID lists the user's live stories, oldest first
func (r *storyRepository) GetVisibleStoriesByUserID(ctx context.Context, userID uint, cutoff time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at > ?", userID, cutoff).
		Order("created_at ASC, id ASC").
		Find(&stories).Error
	return stories, err
}

// GetActiveOwnerIDs returns the distinct owners of live stories, most recent poster first
func (r *storyRepository) GetActiveOwnerIDs(ctx context.Context, cutoff time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("created_at > ?", cutoff).
		Group("user_id").
		Order("MAX(created_at) DESC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AddView records the viewer once; a repeated view is a no-op and returns false
func (r *storyRepository) AddView(ctx context.Context, storyID, userID uint, at time.Time) (bool, error) {
	view := models.StoryView{StoryID: storyID, UserID: userID, ViewedAt: at}
	res := r.db.WithContext(ctx).
		Omit("Story", "User").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&view)
	return res.RowsAffected > 0, res.Error
}

func (r *storyRepository) GetViewsCount(ctx context.Context, storyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StoryView{}).Where("story_id = ?", storyID).Count(&count).Error
	return count, err
}

func (r *storyRepository) GetViewers(ctx context.Context, storyID uint) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	err := db.Preload("Profile").Where("id IN (?)",
		db.Model(&models.StoryView{}).Select("user_id").Where("story_id = ?", storyID),
	).Order("username ASC").Find(&users).Error
	return users, err
}

func (r *storyRepository) DeleteStory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Story{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
