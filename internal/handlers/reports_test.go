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

func unreadCount(t *testing.T, api *testAPI, token string) int64 {
	t.Helper()
	rec := api.do(http.MethodGet, "/api/v1/notifications/unread-count", nil, token)
	requireStatus(t, rec, http.StatusOK)
	var body struct {
		Count int64 `json:"count"`
	}
	decode(t, rec, &body)
	return body.Count
}

func TestReportLifecycle(t *testing.T) {
	api := newTestAPI(t)
	owner, _ := api.user("owner", false)
	reporter, reporterToken := api.user("reporter", false)
	_, adminToken := api.user("admin", true)
	post := testutil.CreatePost(t, api.db, owner.ID)

	rec := api.do(http.MethodPost, postPath(post.ID, "/report"), map[string]string{"reason": "spam"}, reporterToken)
	requireStatus(t, rec, http.StatusCreated)
	var status struct {
		Status string `json:"status"`
	}
	decode(t, rec, &status)
	assert.Equal(t, "reported", status.Status)

	// only staff see the moderation queue
	requireStatus(t, api.do(http.MethodGet, "/api/v1/admin/reports", nil, reporterToken), http.StatusForbidden)

	rec = api.do(http.MethodGet, "/api/v1/admin/reports", nil, adminToken)
	requireStatus(t, rec, http.StatusOK)
	var queue struct {
		Reports []models.Report `json:"reports"`
	}
	decode(t, rec, &queue)
	require.Len(t, queue.Reports, 1)
	reportID := queue.Reports[0].ID

	assert.Equal(t, int64(0), unreadCount(t, api, reporterToken))

	replyPath := fmt.Sprintf("/api/v1/admin/reports/%d/reply", reportID)
	requireStatus(t, api.do(http.MethodPost, replyPath, map[string]string{"reply": "removed"}, reporterToken), http.StatusForbidden)
	requireStatus(t, api.do(http.MethodPost, replyPath, map[string]string{"reply": "removed"}, adminToken), http.StatusOK)
	requireStatus(t, api.do(http.MethodPost, replyPath, map[string]string{"reply": "again"}, adminToken), http.StatusConflict)

	assert.Equal(t, int64(1), unreadCount(t, api, reporterToken))

	rec = api.do(http.MethodGet, "/api/v1/notifications", nil, reporterToken)
	requireStatus(t, rec, http.StatusOK)
	var page struct {
		Notifications []models.Notification `json:"notifications"`
	}
	env := decode(t, rec, &page)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, models.NotificationReportReply, page.Notifications[0].Type)
	assert.False(t, page.Notifications[0].IsRead)
	assert.EqualValues(t, 1, env.Meta["totalItems"])

	assert.Equal(t, int64(0), unreadCount(t, api, reporterToken))
	assert.Equal(t, int64(1), testutil.CountRows(t, api.db, &models.Report{}, "reported_by_id = ? AND is_read = ?", reporter.ID, true))
}

func TestReportPost_RequiresReason(t *testing.T) {
	api := newTestAPI(t)
	owner, token := api.user("owner", false)
	post := testutil.CreatePost(t, api.db, owner.ID)

	requireStatus(t, api.do(http.MethodPost, postPath(post.ID, "/report"), map[string]string{"reason": ""}, token), http.StatusBadRequest)
	requireStatus(t, api.do(http.MethodPost, postPath(404, "/report"), map[string]string{"reason": "spam"}, token), http.StatusNotFound)
}

func TestPostDetail_ShowsReportsToStaff(t *testing.T) {
	api := newTestAPI(t)
	owner, ownerToken := api.user("owner", false)
	_, reporterToken := api.user("reporter", false)
	_, adminToken := api.user("admin", true)
	post := testutil.CreatePost(t, api.db, owner.ID)

	requireStatus(t, api.do(http.MethodPost, postPath(post.ID, "/report"), map[string]string{"reason": "spam"}, reporterToken), http.StatusCreated)

	var view models.PostView
	decode(t, api.do(http.MethodGet, postPath(post.ID, ""), nil, adminToken), &view)
	assert.Len(t, view.Reports, 1)

	view = models.PostView{}
	decode(t, api.do(http.MethodGet, postPath(post.ID, ""), nil, ownerToken), &view)
	assert.Empty(t, view.Reports)
}

func TestMarkNotificationRead_OwnOnly(t *testing.T) {
	api := newTestAPI(t)
	owner, ownerToken := api.user("owner", false)
	_, fanToken := api.user("fan", false)
	post := testutil.CreatePost(t, api.db, owner.ID)
	requireStatus(t, api.do(http.MethodPost, postPath(post.ID, "/like"), nil, fanToken), http.StatusOK)

	var n models.Notification
	require.NoError(t, api.db.Where("recipient_id = ?", owner.ID).First(&n).Error)
	path := fmt.Sprintf("/api/v1/notifications/%d/read", n.ID)

	requireStatus(t, api.do(http.MethodPut, path, nil, fanToken), http.StatusNotFound)
	assert.Equal(t, int64(1), unreadCount(t, api, ownerToken))

	requireStatus(t, api.do(http.MethodPut, path, nil, ownerToken), http.StatusOK)
	assert.Equal(t, int64(0), unreadCount(t, api, ownerToken))
}
