package repositories

import (
	"context"

	"github.com/anonto42/pixora/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostByIDForUpdate(ctx context.Context, id uint) (*models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint, offset, limit int) ([]models.Post, error)
	GetAllPosts(ctx context.Context, offset, limit int) ([]models.Post, error)
	GetPostsCountByUserID(ctx context.Context, userID uint) (int64, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) ([]uint, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("User").Create(post).Error
}

// GetPostByID loads the post with its author and derived counters
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User.Profile").First(&post, id).Error; err != nil {
		return nil, err
	}
	posts := []models.Post{post}
	if err := r.attachCounts(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// GetPostByIDForUpdate locks the post row for the rest of the transaction
func (r *PostgresPostRepository) GetPostByIDForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := forUpdate(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetPostsByUserID(ctx context.Context, userID uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Preload("User.Profile").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, r.attachCounts(ctx, posts)
}

// GetAllPosts returns the global feed, newest first
func (r *PostgresPostRepository) GetAllPosts(ctx context.Context, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Preload("User.Profile").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, r.attachCounts(ctx, posts)
}

func (r *PostgresPostRepository) GetPostsCountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Model(post).Select("Caption", "UpdatedAt").Updates(post).Error
}

// DeletePost removes the post together with its likes, comments, reports and
// every notification that points at any of them. It returns the recipients of
// the removed notifications.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) ([]uint, error) {
	var recipients []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs, reportIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Report{}).Where("post_id = ?", id).Pluck("id", &reportIDs).Error; err != nil {
			return err
		}

		affected := tx.Model(&models.Notification{}).Where("post_id = ?", id)
		if len(commentIDs) > 0 {
			affected = affected.Or("comment_id IN ?", commentIDs)
		}
		if len(reportIDs) > 0 {
			affected = affected.Or("report_id IN ?", reportIDs)
		}
		if err := affected.Distinct().Pluck("recipient_id", &recipients).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
		}
		if len(reportIDs) > 0 {
			if err := tx.Where("report_id IN ?", reportIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		// replies first so the self reference never dangles
		if err := tx.Where("post_id = ? AND parent_id IS NOT NULL", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipients, nil
}

type postCount struct {
	PostID uint
	Total  int64
}

func (r *PostgresPostRepository) attachCounts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	var likes, comments []postCount
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Like{}).Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).Group("post_id").Scan(&likes).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Comment{}).Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).Group("post_id").Scan(&comments).Error; err != nil {
		return err
	}

	likeMap := make(map[uint]int64, len(likes))
	for _, c := range likes {
		likeMap[c.PostID] = c.Total
	}
	commentMap := make(map[uint]int64, len(comments))
	for _, c := range comments {
		commentMap[c.PostID] = c.Total
	}
	for i := range posts {
		posts[i].LikesCount = likeMap[posts[i].ID]
		posts[i].CommentsCount = commentMap[posts[i].ID]
	}
	return nil
}
