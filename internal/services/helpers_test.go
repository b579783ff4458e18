package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/observability"
	"github.com/anonto42/pixora/backend/internal/repositories"
	"github.com/anonto42/pixora/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t.UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	db    *gorm.DB
	store *repositories.Store
	clock *fakeClock

	likes         *LikeService
	comments      *CommentService
	follows       *FollowService
	posts         *PostService
	reports       *ReportService
	notifications *NotificationService
	stories       *StoryService
	users         *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, unread *cache.UnreadCounter) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	store := repositories.NewStore(db)
	clock := newFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	logger := observability.NopLogger()
	rules := NewNotificationRules(clock.Now, logger)

	return &testEnv{
		db:            db,
		store:         store,
		clock:         clock,
		likes:         NewLikeService(store, rules, unread, clock.Now),
		comments:      NewCommentService(store, rules, unread, clock.Now),
		follows:       NewFollowService(store, clock.Now, logger),
		posts:         NewPostService(store, unread, clock.Now),
		reports:       NewReportService(store, rules, unread, clock.Now),
		notifications: NewNotificationService(store, unread, clock.Now),
		stories:       NewStoryService(store, clock.Now, logger),
		users:         NewUserService(store, clock.Now),
	}
}

func (e *testEnv) notificationsOf(t *testing.T, recipientID uint) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, e.db.Where("recipient_id = ?", recipientID).Order("id ASC").Find(&out).Error)
	return out
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}
