package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike_TwiceLeavesNoNotification(t *testing.T) {
	api := newTestAPI(t)
	owner, _ := api.user("owner", false)
	_, fanToken := api.user("fan", false)
	post := testutil.CreatePost(t, api.db, owner.ID)

	rec := api.do(http.MethodPost, postPath(post.ID, "/like"), nil, fanToken)
	requireStatus(t, rec, http.StatusOK)
	var result models.LikeToggleResult
	decode(t, rec, &result)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikesCount)
	assert.Equal(t, int64(1), testutil.CountRows(t, api.db, &models.Notification{}, "recipient_id = ? AND type = ?", owner.ID, models.NotificationLike))

	rec = api.do(http.MethodPost, postPath(post.ID, "/like"), nil, fanToken)
	requireStatus(t, rec, http.StatusOK)
	decode(t, rec, &result)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.LikesCount)
	assert.Equal(t, int64(0), testutil.CountRows(t, api.db, &models.Notification{}, "recipient_id = ?", owner.ID))
}

func TestToggleLike_Errors(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.user("fan", false)

	rec := api.do(http.MethodPost, "/api/v1/posts/abc/like", nil, token)
	requireStatus(t, rec, http.StatusBadRequest)

	rec = api.do(http.MethodPost, postPath(999, "/like"), nil, token)
	requireStatus(t, rec, http.StatusNotFound)
	env := decode(t, rec, nil)
	assert.Equal(t, models.CodeNotFound, env.Code)
}

func TestCreateComment_AndReplies(t *testing.T) {
	api := newTestAPI(t)
	owner, ownerToken := api.user("owner", false)
	commenter, commenterToken := api.user("commenter", false)
	_, adminToken := api.user("admin", true)
	post := testutil.CreatePost(t, api.db, owner.ID)

	rec := api.do(http.MethodPost, postPath(post.ID, "/comments"), map[string]interface{}{"content": "nice shot"}, commenterToken)
	requireStatus(t, rec, http.StatusCreated)
	var top models.CommentResponse
	decode(t, rec, &top)
	assert.Equal(t, "nice shot", top.Content)
	assert.Equal(t, "commenter", top.Author.Username)
	assert.Nil(t, top.ParentID)
	assert.Equal(t, int64(1), top.CommentCount)

	rec = api.do(http.MethodPost, postPath(post.ID, "/comments"), map[string]interface{}{"content": "thanks", "parent_id": top.ID}, adminToken)
	requireStatus(t, rec, http.StatusCreated)

	rec = api.do(http.MethodPost, postPath(post.ID, "/comments"), map[string]interface{}{"content": "agreed", "parent_id": top.ID}, ownerToken)
	requireStatus(t, rec, http.StatusCreated)

	assert.Equal(t, int64(1), testutil.CountRows(t, api.db, &models.Notification{}, "recipient_id = ? AND type = ?", owner.ID, models.NotificationComment))
	assert.Equal(t, int64(1), testutil.CountRows(t, api.db, &models.Notification{}, "recipient_id = ? AND type = ?", commenter.ID, models.NotificationAdminReply))
	assert.Equal(t, int64(1), testutil.CountRows(t, api.db, &models.Notification{}, "recipient_id = ? AND type = ?", commenter.ID, models.NotificationReply))

	rec = api.do(http.MethodGet, postPath(post.ID, "/comments"), nil, ownerToken)
	requireStatus(t, rec, http.StatusOK)
	var listed struct {
		Comments []models.CommentThread `json:"comments"`
	}
	decode(t, rec, &listed)
	require.Len(t, listed.Comments, 1)
	assert.Len(t, listed.Comments[0].Replies, 2)
}

func TestCreateComment_Validation(t *testing.T) {
	api := newTestAPI(t)
	owner, token := api.user("owner", false)
	post := testutil.CreatePost(t, api.db, owner.ID)

	rec := api.do(http.MethodPost, postPath(post.ID, "/comments"), map[string]interface{}{"content": ""}, token)
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, int64(0), testutil.CountRows(t, api.db, &models.Comment{}, ""))
}

func TestDeleteComment_AuthorOnly(t *testing.T) {
	api := newTestAPI(t)
	owner, ownerToken := api.user("owner", false)
	_, otherToken := api.user("other", false)
	post := testutil.CreatePost(t, api.db, owner.ID)

	rec := api.do(http.MethodPost, postPath(post.ID, "/comments"), map[string]interface{}{"content": "mine"}, ownerToken)
	requireStatus(t, rec, http.StatusCreated)
	var created models.CommentResponse
	decode(t, rec, &created)

	path := fmt.Sprintf("/api/v1/comments/%d", created.ID)
	requireStatus(t, api.do(http.MethodDelete, path, nil, otherToken), http.StatusForbidden)
	requireStatus(t, api.do(http.MethodDelete, path, nil, ownerToken), http.StatusNoContent)
	assert.Equal(t, int64(0), testutil.CountRows(t, api.db, &models.Comment{}, ""))
}

func TestToggleFollow(t *testing.T) {
	api := newTestAPI(t)
	_, aliceToken := api.user("alice", false)
	api.user("bob", false)

	rec := api.do(http.MethodPost, "/api/v1/users/bob/follow", nil, aliceToken)
	requireStatus(t, rec, http.StatusOK)
	var result models.FollowToggleResult
	decode(t, rec, &result)
	assert.True(t, result.Following)
	assert.Equal(t, int64(1), result.FollowersCount)

	rec = api.do(http.MethodGet, "/api/v1/users/bob", nil, aliceToken)
	requireStatus(t, rec, http.StatusOK)
	var profile models.ProfileView
	decode(t, rec, &profile)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, int64(1), profile.FollowersCount)

	rec = api.do(http.MethodPost, "/api/v1/users/bob/follow", nil, aliceToken)
	requireStatus(t, rec, http.StatusOK)
	decode(t, rec, &result)
	assert.False(t, result.Following)
	assert.Equal(t, int64(0), result.FollowersCount)
}

func TestToggleFollow_Errors(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.user("alice", false)

	requireStatus(t, api.do(http.MethodPost, "/api/v1/users/alice/follow", nil, token), http.StatusBadRequest)
	requireStatus(t, api.do(http.MethodPost, "/api/v1/users/ghost/follow", nil, token), http.StatusNotFound)
}
