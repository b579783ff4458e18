package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_ReplyOnceAndMarkRead(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	reports := NewPostgresReportRepository(db)

	reporter := testutil.CreateUser(t, db, "reporter", false)
	owner := testutil.CreateUser(t, db, "owner", false)
	post := testutil.CreatePost(t, db, owner.ID)

	answered := &models.Report{PostID: post.ID, ReportedByID: reporter.ID, Reason: "spam"}
	require.NoError(t, reports.CreateReport(ctx, answered))
	pending := &models.Report{PostID: post.ID, ReportedByID: reporter.ID, Reason: "rude"}
	require.NoError(t, reports.CreateReport(ctx, pending))

	ok, err := reports.SetReply(ctx, answered.ID, "removed", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reports.SetReply(ctx, answered.ID, "again", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)

	open, err := reports.GetOpenReports(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, pending.ID, open[0].ID)

	n, err := reports.MarkRepliedAsRead(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := reports.GetReportByID(ctx, answered.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	require.NotNil(t, got.Reply)
	assert.Equal(t, "removed", *got.Reply)

	got, err = reports.GetReportByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRead)
}
