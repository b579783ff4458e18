package services

import (
	"context"
	"log/slog"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

type FollowService struct {
	store  *repositories.Store
	now    Clock
	logger *slog.Logger
}

func NewFollowService(store *repositories.Store, now Clock, logger *slog.Logger) *FollowService {
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FollowService{store: store, now: now, logger: logger}
}

// Toggle follows targetUsername, or unfollows if the actor already follows them.
// The single edge row makes the actor's following set and the target's follower set
// change together.
func (s *FollowService) Toggle(ctx context.Context, actorID uint, targetUsername string) (*models.FollowToggleResult, error) {
	result := &models.FollowToggleResult{}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		target, err := tx.Users.GetUserByUsername(ctx, targetUsername)
		if err != nil {
			return lookupErr(err, "User", targetUsername)
		}
		if target.ID == actorID {
			return models.NewValidationError("You cannot follow yourself")
		}
		if _, err := tx.Users.GetUserByIDForUpdate(ctx, target.ID); err != nil {
			return err
		}

		removed, err := tx.Follows.DeleteFollow(ctx, actorID, target.ID)
		if err != nil {
			return err
		}
		if !removed {
			if err := tx.Follows.CreateFollow(ctx, &models.Follow{
				FollowerID:  actorID,
				FollowingID: target.ID,
				CreatedAt:   s.now(),
			}); err != nil {
				return err
			}
		}

		count, err := tx.Follows.GetFollowersCount(ctx, target.ID)
		if err != nil {
			return err
		}
		result.Following = !removed
		result.FollowersCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "follow toggled",
		"actor_id", actorID, "target", targetUsername, "following", result.Following)
	return result, nil
}

// Followers lists who follows username
func (s *FollowService) Followers(ctx context.Context, username string) ([]models.UserCompact, error) {
	user, err := s.store.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(err, "User", username)
	}
	users, err := s.store.Follows.GetFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

// Following lists whom username follows
func (s *FollowService) Following(ctx context.Context, username string) ([]models.UserCompact, error) {
	user, err := s.store.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(err, "User", username)
	}
	users, err := s.store.Follows.GetFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out
}
