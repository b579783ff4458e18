package models

import "time"

// Follow is a directed edge: FollowerID follows FollowingID.
// Both "following" and "followers" lists are read from this one table.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following;not null"`
	Follower    *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following;not null"`
	Following   *User     `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowToggleResult is the response of the follow toggle endpoint
type FollowToggleResult struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followers_count"`
}
