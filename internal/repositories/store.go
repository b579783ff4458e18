package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store bundles every repository over one gorm handle. A Store obtained from
// Transaction shares a single database transaction across all its repositories.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Follows       FollowRepository
	Posts         PostRepository
	Likes         LikeRepository
	Comments      CommentRepository
	Stories       StoryRepository
	Reports       ReportRepository
	Notifications NotificationRepository
}

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewPostgresUserRepository(db),
		Follows:       NewPostgresFollowRepository(db),
		Posts:         NewPostgresPostRepository(db),
		Likes:         NewPostgresLikeRepository(db),
		Comments:      NewPostgresCommentRepository(db),
		Stories:       NewPostgresStoryRepository(db),
		Reports:       NewPostgresReportRepository(db),
		Notifications: NewPostgresNotificationRepository(db),
	}
}

// Transaction runs fn inside one database transaction. fn must only use the Store it is given.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle, mainly for migrations and tests
func (s *Store) DB() *gorm.DB {
	return s.db
}

// forUpdate locks the selected rows until the surrounding transaction ends.
// The SQLite dialector drops the clause, which is fine for its single-writer model.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
