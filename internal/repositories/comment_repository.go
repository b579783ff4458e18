package repositories

import (
	"context"

	"github.com/anonto42/pixora/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
	GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error)
	DeleteComment(ctx context.Context, id uint) ([]uint, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Parent", "User").Create(comment).Error
}

func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User.Profile").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID returns every comment of the post, replies included, oldest first
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("User.Profile").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// DeleteComment removes the comment, its replies at any depth and their notifications.
// It returns the recipients of the removed notifications.
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) ([]uint, error) {
	var recipients []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.Comment
		if err := tx.Select("id").First(&root, id).Error; err != nil {
			return err
		}

		ids := []uint{id}
		frontier := []uint{id}
		for len(frontier) > 0 {
			var children []uint
			if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}

		if err := tx.Model(&models.Notification{}).Where("comment_id IN ?", ids).
			Distinct().Pluck("recipient_id", &recipients).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		// deepest replies were appended last
		for i := len(ids) - 1; i >= 0; i-- {
			if err := tx.Delete(&models.Comment{}, ids[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipients, nil
}
