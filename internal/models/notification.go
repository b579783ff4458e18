package models

import "time"

// NotificationType tags which event produced a notification
type NotificationType string

const (
	NotificationLike        NotificationType = "like"
	NotificationComment     NotificationType = "comment"
	NotificationReply       NotificationType = "reply"
	NotificationAdminReply  NotificationType = "admin_reply"
	NotificationReportReply NotificationType = "report_reply"
)

// Notification is derived from a like, comment, reply or report answer; users never create one directly.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"index;not null"`
	Recipient   *User            `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	ActorID     *uint            `json:"actor_id,omitempty" gorm:"index"`
	Actor       *User            `json:"actor,omitempty" gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
	PostID      *uint            `json:"post_id,omitempty" gorm:"index"`
	Post        *Post            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CommentID   *uint            `json:"comment_id,omitempty" gorm:"index"`
	Comment     *Comment         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ReportID    *uint            `json:"report_id,omitempty" gorm:"index"`
	Report      *Report          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Type        NotificationType `json:"type" gorm:"size:30;index;not null"`
	Message     string           `json:"message" gorm:"type:text"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}

// NotificationGroups buckets a user's notifications by age for the activity screen
type NotificationGroups struct {
	Today     []Notification `json:"today"`
	Yesterday []Notification `json:"yesterday"`
	ThisWeek  []Notification `json:"this_week"`
	Older     []Notification `json:"older"`
}
