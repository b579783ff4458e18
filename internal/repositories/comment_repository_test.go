package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_DeleteCommentRemovesReplyTree(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	comments := NewPostgresCommentRepository(db)
	notifications := NewPostgresNotificationRepository(db)

	u := testutil.CreateUser(t, db, "writer", false)
	p := testutil.CreatePost(t, db, u.ID)

	root := &models.Comment{PostID: p.ID, UserID: u.ID, Content: "root"}
	require.NoError(t, comments.CreateComment(ctx, root))
	child := &models.Comment{PostID: p.ID, UserID: u.ID, ParentID: &root.ID, Content: "child"}
	require.NoError(t, comments.CreateComment(ctx, child))
	grandchild := &models.Comment{PostID: p.ID, UserID: u.ID, ParentID: &child.ID, Content: "grandchild"}
	require.NoError(t, comments.CreateComment(ctx, grandchild))
	sibling := &models.Comment{PostID: p.ID, UserID: u.ID, Content: "sibling"}
	require.NoError(t, comments.CreateComment(ctx, sibling))

	require.NoError(t, notifications.CreateNotification(ctx, &models.Notification{
		RecipientID: u.ID, CommentID: &grandchild.ID, Type: models.NotificationReply,
	}))

	recipients, err := comments.DeleteComment(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{u.ID}, recipients)

	remaining, err := comments.GetCommentsByPostID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, sibling.ID, remaining[0].ID)
	assert.Zero(t, testutil.CountRows(t, db, &models.Notification{}, ""))
}
