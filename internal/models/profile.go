package models

import "time"

// DefaultAvatar is assigned to every new profile until the owner uploads one.
const DefaultAvatar = "default.jpg"

// Profile holds the public, editable part of an account. It is created together with its User.
type Profile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	AvatarURL string    `json:"avatar_url" gorm:"default:default.jpg"`
	Bio       string    `json:"bio" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest defines the request body for editing the caller's profile
type UpdateProfileRequest struct {
	Bio       *string `json:"bio,omitempty" form:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url,omitempty" form:"avatar_url" validate:"omitempty,max=512"`
}

// ProfileView is the profile page: the user, their posts and follow counters.
type ProfileView struct {
	User           UserCompact `json:"user"`
	Bio            string      `json:"bio"`
	Posts          []Post      `json:"posts"`
	PostsCount     int64       `json:"posts_count"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
	IsFollowing    bool        `json:"is_following"`
	IsSelf         bool        `json:"is_self"`
}
