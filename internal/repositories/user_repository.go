package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/pixora/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user and profile data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByIDForUpdate(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	DeleteUser(ctx context.Context, id uint) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser inserts the user and, when set, its profile in the same statement batch
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByIDForUpdate locks the user row for the rest of the transaction
func (r *PostgresUserRepository) GetUserByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := forUpdate(r.db.WithContext(ctx)).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs loads users keyed by ID; unknown IDs are simply absent from the map
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	result := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Profile").Save(user).Error
}

// UpdateProfile saves bio and avatar, creating the profile row if it is missing
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// DeleteUser removes the account and everything it owns
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		posts := NewPostgresPostRepository(tx)
		for _, postID := range postIDs {
			if _, err := posts.DeletePost(ctx, postID); err != nil {
				return err
			}
		}

		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("user_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		comments := NewPostgresCommentRepository(tx)
		for _, commentID := range commentIDs {
			if _, err := comments.DeleteComment(ctx, commentID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var storyIDs []uint
		if err := tx.Model(&models.Story{}).Where("user_id = ?", id).Pluck("id", &storyIDs).Error; err != nil {
			return err
		}
		if len(storyIDs) > 0 {
			if err := tx.Where("story_id IN ?", storyIDs).Delete(&models.StoryView{}).Error; err != nil {
				return err
			}
		}

		var reportIDs []uint
		if err := tx.Model(&models.Report{}).Where("reported_by_id = ?", id).Pluck("id", &reportIDs).Error; err != nil {
			return err
		}
		if len(reportIDs) > 0 {
			if err := tx.Where("report_id IN ?", reportIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("recipient_id = ? OR actor_id = ?", id, id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reported_by_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Story{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SearchUsers matches usernames case-insensitively
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Profile").
		Where("LOWER(username) LIKE LOWER(?)", "%"+query+"%").
		Order("username ASC").Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
