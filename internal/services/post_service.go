package services

import (
	"context"
	"strings"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

const maxCaptionLen = 2200

type PostService struct {
	store  *repositories.Store
	unread *cache.UnreadCounter
	now    Clock
}

type CreatePostInput struct {
	UserID   uint
	ImageURL string
	Caption  *string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Caption *string
}

func NewPostService(store *repositories.Store, unread *cache.UnreadCounter, now Clock) *PostService {
	if now == nil {
		now = SystemClock
	}
	return &PostService{store: store, unread: unread, now: now}
}

func cleanCaption(caption *string) (*string, error) {
	if caption == nil {
		return nil, nil
	}
	c := strings.TrimSpace(*caption)
	if len(c) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2200 characters)")
	}
	if c == "" {
		return nil, nil
	}
	return &c, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, models.NewValidationError("Image is required")
	}
	caption, err := cleanCaption(in.Caption)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.Post{
		UserID:    in.UserID,
		ImageURL:  in.ImageURL,
		Caption:   caption,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.store.Posts.GetPostByID(ctx, post.ID)
}

// GetPost returns the post as viewerID sees it. Staff also get the post's reports.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*models.PostView, error) {
	post, err := s.store.Posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, lookupErr(err, "Post", postID)
	}
	views, err := s.decorate(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	view := views[0]

	viewer, err := s.store.Users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, lookupErr(err, "User", viewerID)
	}
	if viewer.IsStaff {
		reports, err := s.store.Reports.GetReportsByPostID(ctx, postID)
		if err != nil {
			return nil, err
		}
		view.Reports = reports
	}
	return &view, nil
}

// Feed is every post newest first, with the viewer's like flags and the story tray
func (s *PostService) Feed(ctx context.Context, viewerID uint, page, limit int, activeOwners []models.UserCompact) (*models.FeedResponse, error) {
	page, limit = normalizePage(page, limit)
	posts, err := s.store.Posts.GetAllPosts(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	if activeOwners == nil {
		activeOwners = []models.UserCompact{}
	}
	return &models.FeedResponse{Posts: views, ActiveStoryOwners: activeOwners, Page: page, Limit: limit}, nil
}

func (s *PostService) ListByUser(ctx context.Context, viewerID, userID uint, page, limit int) ([]models.PostView, error) {
	page, limit = normalizePage(page, limit)
	posts, err := s.store.Posts.GetPostsByUserID(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, viewerID, posts)
}

func (s *PostService) decorate(ctx context.Context, viewerID uint, posts []models.Post) ([]models.PostView, error) {
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	liked, err := s.store.Likes.GetLikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, len(posts))
	for i := range posts {
		views[i] = models.PostView{Post: posts[i], Liked: liked[posts[i].ID]}
		if posts[i].User != nil {
			views[i].Author = posts[i].User.ToCompact()
		}
	}
	return views, nil
}

// UpdatePost edits the caption; only the owner may do so
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.store.Posts.GetPostByID(ctx, in.PostID)
	if err != nil {
		return nil, lookupErr(err, "Post", in.PostID)
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	caption, err := cleanCaption(in.Caption)
	if err != nil {
		return nil, err
	}
	post.Caption = caption
	post.UpdatedAt = s.now()
	if err := s.store.Posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.store.Posts.GetPostByID(ctx, post.ID)
}

// DeletePost removes the owner's post and everything hanging off it
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	fx := &sideEffects{}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByIDForUpdate(ctx, postID)
		if err != nil {
			return lookupErr(err, "Post", postID)
		}
		if post.UserID != userID {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		recipients, err := tx.Posts.DeletePost(ctx, postID)
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
