package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/observability"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

const maxStoryImages = 10

// StoryVisible reports whether story can still be seen at now.
// Visibility ends exactly StoryLifetime after creation.
func StoryVisible(story *models.Story, now time.Time) bool {
	return now.Before(story.ExpiresAt())
}

type StoryService struct {
	store  *repositories.Store
	now    Clock
	logger *slog.Logger
}

func NewStoryService(store *repositories.Store, now Clock, logger *slog.Logger) *StoryService {
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryService{store: store, now: now, logger: logger}
}

func (s *StoryService) cutoff(now time.Time) time.Time {
	return now.Add(-models.StoryLifetime)
}

// Upload creates one story per image reference, all in one transaction
func (s *StoryService) Upload(ctx context.Context, userID uint, imageURLs []string) ([]models.StoryResponse, error) {
	if len(imageURLs) == 0 {
		return nil, models.NewValidationError("At least one image is required")
	}
	if len(imageURLs) > maxStoryImages {
		return nil, models.NewValidationError("Too many images (max 10)")
	}
	for _, u := range imageURLs {
		if strings.TrimSpace(u) == "" {
			return nil, models.NewValidationError("Image is required")
		}
	}

	now := s.now()
	out := make([]models.StoryResponse, 0, len(imageURLs))
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		for _, u := range imageURLs {
			story := &models.Story{UserID: userID, ImageURL: u, CreatedAt: now}
			if err := tx.Stories.CreateStory(ctx, story); err != nil {
				return err
			}
			out = append(out, toStoryResponse(story, 0))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ViewUserStories returns ownerID's visible stories oldest first and records viewerID
// as a viewer of each, unless viewerID is the owner. The owner gets view counts instead.
func (s *StoryService) ViewUserStories(ctx context.Context, viewerID, ownerID uint) ([]models.StoryResponse, error) {
	if _, err := s.store.Users.GetUserByID(ctx, ownerID); err != nil {
		return nil, lookupErr(err, "User", ownerID)
	}

	now := s.now()
	isOwner := viewerID == ownerID
	out := []models.StoryResponse{}
	newViews := 0

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		stories, err := tx.Stories.GetVisibleStoriesByUserID(ctx, ownerID, s.cutoff(now))
		if err != nil {
			return err
		}
		for i := range stories {
			story := &stories[i]
			if !StoryVisible(story, now) {
				continue
			}
			var views int64
			if isOwner {
				if views, err = tx.Stories.GetViewsCount(ctx, story.ID); err != nil {
					return err
				}
			} else {
				added, err := tx.Stories.AddView(ctx, story.ID, viewerID, now)
				if err != nil {
					return err
				}
				if added {
					newViews++
				}
			}
			out = append(out, toStoryResponse(story, views))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newViews > 0 {
		observability.StoryViews.Add(float64(newViews))
		s.logger.DebugContext(ctx, "story views recorded", "viewer_id", viewerID, "owner_id", ownerID, "count", newViews)
	}
	return out, nil
}

// ActiveOwners lists users with at least one visible story, most recent poster first
func (s *StoryService) ActiveOwners(ctx context.Context) ([]models.UserCompact, error) {
	ids, err := s.store.Stories.GetActiveOwnerIDs(ctx, s.cutoff(s.now()))
	if err != nil {
		return nil, err
	}
	users, err := s.store.Users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserCompact, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, u.ToCompact())
		}
	}
	return out, nil
}

// Delete removes a story; only its owner may do so
func (s *StoryService) Delete(ctx context.Context, userID, storyID uint) error {
	story, err := s.store.Stories.GetStoryByID(ctx, storyID)
	if err != nil {
		return lookupErr(err, "Story", storyID)
	}
	if story.UserID != userID {
		return models.NewForbiddenError("You can only delete your own stories")
	}
	return s.store.Stories.DeleteStory(ctx, storyID)
}

// Viewers lists who has seen a story; only its owner may ask
func (s *StoryService) Viewers(ctx context.Context, userID, storyID uint) ([]models.UserCompact, error) {
	story, err := s.store.Stories.GetStoryByID(ctx, storyID)
	if err != nil {
		return nil, lookupErr(err, "Story", storyID)
	}
	if story.UserID != userID {
		return nil, models.NewForbiddenError("Only the owner can see story viewers")
	}
	users, err := s.store.Stories.GetViewers(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

func toStoryResponse(story *models.Story, views int64) models.StoryResponse {
	return models.StoryResponse{
		ID:         story.ID,
		ImageURL:   story.ImageURL,
		CreatedAt:  story.CreatedAt,
		ExpiresAt:  story.ExpiresAt(),
		ViewsCount: views,
	}
}
