package models

import "time"

// Report flags a post. An admin answers it once through Reply.
type Report struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	PostID       uint       `json:"post_id" gorm:"index;not null"`
	Post         *Post      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ReportedByID uint       `json:"reported_by_id" gorm:"index;not null"`
	ReportedBy   *User      `json:"reported_by,omitempty" gorm:"foreignKey:ReportedByID;constraint:OnDelete:CASCADE"`
	Reason       string     `json:"reason" gorm:"type:text;not null"`
	Reply        *string    `json:"reply,omitempty" gorm:"type:text"`
	IsRead       bool       `json:"is_read" gorm:"default:false;index"`
	RepliedAt    *time.Time `json:"replied_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index"`
}

// CreateReportRequest defines the request body for reporting a post
type CreateReportRequest struct {
	Reason string `json:"reason" form:"reason" validate:"required,max=1000"`
}

// ReplyReportRequest is the admin answer to a report
type ReplyReportRequest struct {
	Reply string `json:"reply" form:"reply" validate:"required,max=2000"`
}
