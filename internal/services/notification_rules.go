package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

// NotificationRules derives notifications from content mutations. The decision
// functions are pure; the On* writers run against the caller's transaction.
type NotificationRules struct {
	now    Clock
	logger *slog.Logger
}

func NewNotificationRules(now Clock, logger *slog.Logger) *NotificationRules {
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationRules{now: now, logger: logger}
}

// LikeNotification returns the notification a like produces, or nil for a self-like
func LikeNotification(post *models.Post, actor *models.User) *models.Notification {
	if post.UserID == actor.ID {
		return nil
	}
	return &models.Notification{
		RecipientID: post.UserID,
		ActorID:     &actor.ID,
		PostID:      &post.ID,
		Type:        models.NotificationLike,
		Message:     fmt.Sprintf("%s liked your post", actor.Username),
	}
}

// CommentNotification picks exactly one rule for a new comment:
// a top-level comment notifies the post owner, a staff reply notifies the parent
// author as admin_reply, any other reply notifies the parent author as reply.
// Nobody is notified about their own action.
func CommentNotification(post *models.Post, comment, parent *models.Comment, author *models.User) *models.Notification {
	n := &models.Notification{
		ActorID:   &author.ID,
		PostID:    &post.ID,
		CommentID: &comment.ID,
	}

	switch {
	case parent == nil:
		if post.UserID == author.ID {
			return nil
		}
		n.RecipientID = post.UserID
		n.Type = models.NotificationComment
		n.Message = fmt.Sprintf("%s commented on your post", author.Username)
	case author.IsStaff:
		if parent.UserID == author.ID {
			return nil
		}
		n.RecipientID = parent.UserID
		n.Type = models.NotificationAdminReply
		n.Message = "Admin replied to your comment"
	default:
		if parent.UserID == author.ID {
			return nil
		}
		n.RecipientID = parent.UserID
		n.Type = models.NotificationReply
		n.Message = fmt.Sprintf("%s replied to your comment", author.Username)
	}
	return n
}

// ReportReplyNotification tells the reporter that an admin answered
func ReportReplyNotification(report *models.Report) *models.Notification {
	return &models.Notification{
		RecipientID: report.ReportedByID,
		PostID:      &report.PostID,
		ReportID:    &report.ID,
		Type:        models.NotificationReportReply,
		Message:     "An admin replied to your report",
	}
}

func (r *NotificationRules) write(ctx context.Context, tx *repositories.Store, n *models.Notification, fx *sideEffects) error {
	if n == nil {
		return nil
	}
	n.CreatedAt = r.now()
	if err := tx.Notifications.CreateNotification(ctx, n); err != nil {
		return err
	}
	fx.created = append(fx.created, n.Type)
	fx.touch(n.RecipientID)
	r.logger.DebugContext(ctx, "notification created",
		"type", n.Type, "recipient_id", n.RecipientID, "notification_id", n.ID)
	return nil
}

// OnLikeAdded notifies the post owner about a new like
func (r *NotificationRules) OnLikeAdded(ctx context.Context, tx *repositories.Store, post *models.Post, actor *models.User, fx *sideEffects) error {
	return r.write(ctx, tx, LikeNotification(post, actor), fx)
}

// OnLikeRemoved retracts the like notification, so a like/unlike pair nets out to nothing
func (r *NotificationRules) OnLikeRemoved(ctx context.Context, tx *repositories.Store, post *models.Post, actor *models.User, fx *sideEffects) error {
	if post.UserID == actor.ID {
		return nil
	}
	n, err := tx.Notifications.DeleteLikeNotifications(ctx, post.UserID, actor.ID, post.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		fx.retracted += int(n)
		fx.touch(post.UserID)
		r.logger.DebugContext(ctx, "like notification retracted",
			"recipient_id", post.UserID, "post_id", post.ID, "removed", n)
	}
	return nil
}

// OnCommentCreated writes the single notification a comment or reply produces
func (r *NotificationRules) OnCommentCreated(ctx context.Context, tx *repositories.Store, post *models.Post, comment, parent *models.Comment, author *models.User, fx *sideEffects) error {
	return r.write(ctx, tx, CommentNotification(post, comment, parent, author), fx)
}

// OnReportReplied notifies the reporter
func (r *NotificationRules) OnReportReplied(ctx context.Context, tx *repositories.Store, report *models.Report, fx *sideEffects) error {
	return r.write(ctx, tx, ReportReplyNotification(report), fx)
}
