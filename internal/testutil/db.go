// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema migrated.
// A single connection keeps every query, transactional or not, on the same database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// CreateUser inserts a user with an empty profile
func CreateUser(t *testing.T, db *gorm.DB, username string, staff bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Password: "not-a-real-hash",
		IsStaff:  staff,
		Profile:  &models.Profile{AvatarURL: models.DefaultAvatar},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post owned by userID
func CreatePost(t *testing.T, db *gorm.DB, userID uint) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, ImageURL: fmt.Sprintf("/media/post-%d.jpg", userID)}
	require.NoError(t, db.Omit("User").Create(post).Error)
	return post
}

// CreateStory inserts a story with an explicit creation time
func CreateStory(t *testing.T, db *gorm.DB, userID uint, createdAt time.Time) *models.Story {
	t.Helper()
	story := &models.Story{UserID: userID, ImageURL: "/media/story.jpg", CreatedAt: createdAt.UTC()}
	require.NoError(t, db.Omit("User").Create(story).Error)
	return story
}

// CountRows counts rows of model matching the optional condition
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
