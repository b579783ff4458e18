package services

import (
	"context"
	"strings"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

const maxCommentLen = 2000

type CommentService struct {
	store  *repositories.Store
	rules  *NotificationRules
	unread *cache.UnreadCounter
	now    Clock
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	Content  string
	ParentID *uint
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(store *repositories.Store, rules *NotificationRules, unread *cache.UnreadCounter, now Clock) *CommentService {
	if now == nil {
		now = SystemClock
	}
	return &CommentService{store: store, rules: rules, unread: unread, now: now}
}

// CreateComment adds a comment or, with ParentID, a reply, and emits its notification
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.CommentResponse, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	fx := &sideEffects{}
	var resp *models.CommentResponse

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByID(ctx, in.PostID)
		if err != nil {
			return lookupErr(err, "Post", in.PostID)
		}
		author, err := tx.Users.GetUserByID(ctx, in.UserID)
		if err != nil {
			return lookupErr(err, "User", in.UserID)
		}

		var parent *models.Comment
		if in.ParentID != nil {
			parent, err = tx.Comments.GetCommentByID(ctx, *in.ParentID)
			if err != nil {
				return lookupErr(err, "Comment", *in.ParentID)
			}
			if parent.PostID != post.ID {
				return models.NewValidationError("Parent comment belongs to another post")
			}
		}

		comment := &models.Comment{
			PostID:    post.ID,
			UserID:    author.ID,
			ParentID:  in.ParentID,
			Content:   content,
			CreatedAt: s.now(),
		}
		if err := tx.Comments.CreateComment(ctx, comment); err != nil {
			return err
		}
		if err := s.rules.OnCommentCreated(ctx, tx, post, comment, parent, author, fx); err != nil {
			return err
		}

		count, err := tx.Comments.GetCommentsCountByPostID(ctx, post.ID)
		if err != nil {
			return err
		}
		resp = &models.CommentResponse{
			ID:           comment.ID,
			Author:       author.ToCompact(),
			Content:      comment.Content,
			ParentID:     comment.ParentID,
			CommentCount: count,
			CreatedAt:    comment.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fx.flush(ctx, s.unread)
	return resp, nil
}

// ListComments returns the post's top-level comments with nested replies, oldest first
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.CommentThread, error) {
	if _, err := s.store.Posts.GetPostByID(ctx, postID); err != nil {
		return nil, lookupErr(err, "Post", postID)
	}
	comments, err := s.store.Comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return buildThreads(comments), nil
}

func buildThreads(comments []models.Comment) []models.CommentThread {
	children := make(map[uint][]models.Comment)
	var roots []models.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var build func(c models.Comment) models.CommentThread
	build = func(c models.Comment) models.CommentThread {
		thread := models.CommentThread{Comment: c, Replies: []models.CommentThread{}}
		if c.User != nil {
			thread.Author = c.User.ToCompact()
		}
		for _, child := range children[c.ID] {
			thread.Replies = append(thread.Replies, build(child))
		}
		return thread
	}

	threads := make([]models.CommentThread, 0, len(roots))
	for _, r := range roots {
		threads = append(threads, build(r))
	}
	return threads
}

// DeleteComment removes the caller's comment with its replies and their notifications
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	fx := &sideEffects{}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		comment, err := tx.Comments.GetCommentByID(ctx, in.CommentID)
		if err != nil {
			return lookupErr(err, "Comment", in.CommentID)
		}
		if comment.UserID != in.UserID {
			return models.NewForbiddenError("You can only delete your own comments")
		}
		recipients, err := tx.Comments.DeleteComment(ctx, in.CommentID)
		if err != nil {
			return err
		}
		fx.touch(recipients...)
		return nil
	})
	if err != nil {
		return err
	}
	fx.flush(ctx, s.unread)
	return nil
}
