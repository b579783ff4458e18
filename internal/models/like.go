package models

import "time"

// Like is one membership row of a post's like set
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like;not null"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeToggleResult is the response of the like toggle endpoint
type LikeToggleResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}
