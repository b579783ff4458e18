package models

import "time"

// Post is an image post owned by one user
type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"index;not null"`
	User          *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ImageURL      string    `json:"image_url" gorm:"not null"`
	Caption       *string   `json:"caption,omitempty" gorm:"type:text"`
	LikesCount    int64     `json:"likes_count" gorm:"-"`
	CommentsCount int64     `json:"comments_count" gorm:"-"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreatePostRequest defines the JSON request body for creating a post from an already stored image
type CreatePostRequest struct {
	ImageURL string  `json:"image_url" form:"image_url" validate:"omitempty,max=512"`
	Caption  *string `json:"caption,omitempty" form:"caption" validate:"omitempty,max=2200"`
}

// UpdatePostRequest defines the request body for editing a caption
type UpdatePostRequest struct {
	Caption *string `json:"caption" validate:"omitempty,max=2200"`
}

// PostView is a post as shown to a particular viewer
type PostView struct {
	Post
	Author  UserCompact `json:"author"`
	Liked   bool        `json:"liked"`
	Reports []Report    `json:"reports,omitempty"`
}

// FeedResponse is the home feed: newest posts plus the tray of users with live stories
type FeedResponse struct {
	Posts             []PostView    `json:"posts"`
	ActiveStoryOwners []UserCompact `json:"active_story_owners"`
	Page              int           `json:"page"`
	Limit             int           `json:"limit"`
}
