package models

import "time"

// StoryLifetime is how long a story stays visible after it is created.
const StoryLifetime = 24 * time.Hour

// Story is an ephemeral image. Expiry is computed from CreatedAt, never stored.
type Story struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ImageURL  string    `json:"image_url" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// ExpiresAt is the first instant at which the story is no longer visible
func (s *Story) ExpiresAt() time.Time {
	return s.CreatedAt.Add(StoryLifetime)
}

// StoryView records that a user has seen a story
type StoryView struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	StoryID  uint      `json:"story_id" gorm:"index;uniqueIndex:idx_story_user_view;not null"`
	Story    *Story    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID   uint      `json:"user_id" gorm:"index;uniqueIndex:idx_story_user_view;not null"`
	User     *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ViewedAt time.Time `json:"viewed_at"`
}

// CreateStoryRequest is the JSON form of upload-story for images that are already stored
type CreateStoryRequest struct {
	ImageURLs []string `json:"image_urls" validate:"required,min=1,max=10,dive,required,max=512"`
}

// StoryResponse is a story as shown to a viewer
type StoryResponse struct {
	ID         uint      `json:"id"`
	ImageURL   string    `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	ViewsCount int64     `json:"views_count,omitempty"`
}
