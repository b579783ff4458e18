package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryVisible(t *testing.T) {
	t.Parallel()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	story := &models.Story{CreatedAt: created}

	tests := []struct {
		name string
		at   time.Duration
		want bool
	}{
		{"at creation", 0, true},
		{"one hour", time.Hour, true},
		{"23h59m", 23*time.Hour + 59*time.Minute, true},
		{"one nanosecond before expiry", models.StoryLifetime - time.Nanosecond, true},
		{"exactly 24h", models.StoryLifetime, false},
		{"24h00m01s", models.StoryLifetime + time.Second, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StoryVisible(story, created.Add(tt.at)))
		})
	}
}

func TestStoryService_ExpiryBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", false)
	viewer := testutil.CreateUser(t, env.db, "viewer", false)

	created := env.clock.Now()
	uploaded, err := env.stories.Upload(ctx, owner.ID, []string{"/media/s1"})
	require.NoError(t, err)
	require.Len(t, uploaded, 1)
	assert.True(t, uploaded[0].ExpiresAt.Equal(created.Add(24*time.Hour)))

	env.clock.Set(created.Add(23*time.Hour + 59*time.Minute))
	stories, err := env.stories.ViewUserStories(ctx, viewer.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, stories, 1)

	owners, err := env.stories.ActiveOwners(ctx)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, owner.ID, owners[0].ID)

	env.clock.Set(created.Add(24*time.Hour + time.Second))
	stories, err = env.stories.ViewUserStories(ctx, viewer.ID, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, stories)

	owners, err = env.stories.ActiveOwners(ctx)
	require.NoError(t, err)
	assert.Empty(t, owners)

	// expired stories are hidden, never deleted
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, &models.Story{}, ""))
}

func TestStoryService_ViewRecordsViewersAscending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", false)
	viewer := testutil.CreateUser(t, env.db, "viewer", false)

	_, err := env.stories.Upload(ctx, owner.ID, []string{"/media/a"})
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	_, err = env.stories.Upload(ctx, owner.ID, []string{"/media/b"})
	require.NoError(t, err)

	// owner looking at their own stories is not a view
	own, err := env.stories.ViewUserStories(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Zero(t, testutil.CountRows(t, env.db, &models.StoryView{}, ""))

	seen, err := env.stories.ViewUserStories(ctx, viewer.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "/media/a", seen[0].ImageURL)
	assert.Equal(t, "/media/b", seen[1].ImageURL)

	_, err = env.stories.ViewUserStories(ctx, viewer.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), testutil.CountRows(t, env.db, &models.StoryView{}, ""))

	own, err = env.stories.ViewUserStories(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), own[0].ViewsCount)

	viewers, err := env.stories.Viewers(ctx, owner.ID, seen[0].ID)
	require.NoError(t, err)
	require.Len(t, viewers, 1)
	assert.Equal(t, viewer.ID, viewers[0].ID)

	_, err = env.stories.Viewers(ctx, viewer.ID, seen[0].ID)
	assertAppError(t, err, models.CodeForbidden)
}

func TestStoryService_UploadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", false)
	other := testutil.CreateUser(t, env.db, "other", false)

	_, err := env.stories.Upload(ctx, owner.ID, nil)
	assertAppError(t, err, models.CodeValidation)

	batch, err := env.stories.Upload(ctx, owner.ID, []string{"/media/1", "/media/2", "/media/3"})
	require.NoError(t, err)
	assert.Len(t, batch, 3)

	err = env.stories.Delete(ctx, other.ID, batch[0].ID)
	assertAppError(t, err, models.CodeForbidden)

	require.NoError(t, env.stories.Delete(ctx, owner.ID, batch[0].ID))
	assert.Equal(t, int64(2), testutil.CountRows(t, env.db, &models.Story{}, ""))

	err = env.stories.Delete(ctx, owner.ID, batch[0].ID)
	assertAppError(t, err, models.CodeNotFound)

	_, err = env.stories.ViewUserStories(ctx, other.ID, 999)
	assertAppError(t, err, models.CodeNotFound)
}
