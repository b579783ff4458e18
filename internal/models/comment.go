package models

import "time"

// Comment is a comment on a post. A comment with ParentID set is a reply.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ParentID  *uint     `json:"parent_id" gorm:"index"`
	Parent    *Comment  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" form:"content" validate:"required,max=2000"`
	ParentID *uint  `json:"parent_id,omitempty" form:"parent_id"`
}

// CommentResponse is returned by add-comment
type CommentResponse struct {
	ID           uint        `json:"id"`
	Author       UserCompact `json:"author"`
	Content      string      `json:"content"`
	ParentID     *uint       `json:"parent_id"`
	CommentCount int64       `json:"comment_count"`
	CreatedAt    time.Time   `json:"created_at"`
}

// CommentThread is a top-level comment with its replies, oldest first.
type CommentThread struct {
	Comment
	Author  UserCompact     `json:"author"`
	Replies []CommentThread `json:"replies"`
}
