package services

import (
	"context"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/observability"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

type LikeService struct {
	store  *repositories.Store
	rules  *NotificationRules
	unread *cache.UnreadCounter
	now    Clock
}

func NewLikeService(store *repositories.Store, rules *NotificationRules, unread *cache.UnreadCounter, now Clock) *LikeService {
	if now == nil {
		now = SystemClock
	}
	return &LikeService{store: store, rules: rules, unread: unread, now: now}
}

// Toggle flips the user's membership in the post's like set. The post row is locked
// so concurrent toggles on the same post serialize.
func (s *LikeService) Toggle(ctx context.Context, userID, postID uint) (*models.LikeToggleResult, error) {
	fx := &sideEffects{}
	result := &models.LikeToggleResult{}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByIDForUpdate(ctx, postID)
		if err != nil {
			return lookupErr(err, "Post", postID)
		}
		actor, err := tx.Users.GetUserByID(ctx, userID)
		if err != nil {
			return lookupErr(err, "User", userID)
		}

		removed, err := tx.Likes.DeleteLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if removed {
			if err := s.rules.OnLikeRemoved(ctx, tx, post, actor, fx); err != nil {
				return err
			}
		} else {
			if err := tx.Likes.CreateLike(ctx, &models.Like{PostID: postID, UserID: userID, CreatedAt: s.now()}); err != nil {
				return err
			}
			if err := s.rules.OnLikeAdded(ctx, tx, post, actor, fx); err != nil {
				return err
			}
		}

		count, err := tx.Likes.GetLikesCountByPostID(ctx, postID)
		if err != nil {
			return err
		}
		result.Liked = !removed
		result.LikesCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	fx.flush(ctx, s.unread)
	state := "unliked"
	if result.Liked {
		state = "liked"
	}
	observability.LikesToggled.WithLabelValues(state).Inc()
	return result, nil
}
