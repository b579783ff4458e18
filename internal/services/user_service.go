package services

import (
	"context"
	"strings"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
)

type UserService struct {
	store *repositories.Store
	now   Clock
}

func NewUserService(store *repositories.Store, now Clock) *UserService {
	if now == nil {
		now = SystemClock
	}
	return &UserService{store: store, now: now}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "User", id)
	}
	return user, nil
}

// Profile builds the profile page of username as viewerID sees it
func (s *UserService) Profile(ctx context.Context, viewerID uint, username string) (*models.ProfileView, error) {
	user, err := s.store.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(err, "User", username)
	}

	view := &models.ProfileView{
		User:   user.ToCompact(),
		IsSelf: user.ID == viewerID,
	}
	if user.Profile != nil {
		view.Bio = user.Profile.Bio
	}

	if view.Posts, err = s.store.Posts.GetPostsByUserID(ctx, user.ID, 0, maxPageSize); err != nil {
		return nil, err
	}
	if view.PostsCount, err = s.store.Posts.GetPostsCountByUserID(ctx, user.ID); err != nil {
		return nil, err
	}
	if view.FollowersCount, err = s.store.Follows.GetFollowersCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if view.FollowingCount, err = s.store.Follows.GetFollowingCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if !view.IsSelf {
		if view.IsFollowing, err = s.store.Follows.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
	}
	if view.Posts == nil {
		view.Posts = []models.Post{}
	}
	return view, nil
}

// UpdateProfile edits the caller's bio and avatar; fields left nil are unchanged
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.store.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "User", userID)
	}
	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{UserID: user.ID, AvatarURL: models.DefaultAvatar}
	}
	if req.Bio != nil {
		profile.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		avatar := strings.TrimSpace(*req.AvatarURL)
		if avatar == "" {
			avatar = models.DefaultAvatar
		}
		profile.AvatarURL = avatar
	}
	profile.UpdatedAt = s.now()
	if err := s.store.Users.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.store.Users.GetUserByID(ctx, userID)
}

func (s *UserService) Search(ctx context.Context, query string) ([]models.UserCompact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.UserCompact{}, nil
	}
	users, err := s.store.Users.SearchUsers(ctx, query, defaultPageSize)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

// DeleteAccount removes the caller and everything they own
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.store.Users.DeleteUser(ctx, userID); err != nil {
		return lookupErr(err, "User", userID)
	}
	return nil
}
