package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       *string   `json:"email,omitempty" gorm:"uniqueIndex"`
	Password    string    `json:"-"`                                                 // bcrypt hash
	IsStaff     bool      `json:"is_staff" gorm:"default:false"`
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // set once the account signs in through Firebase
	Profile     *Profile  `json:"profile,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCompact is the author/actor shape embedded in feed, comment and notification responses.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	IsStaff   bool   `json:"is_staff"`
}

// ToCompact converts a User to UserCompact
func (u *User) ToCompact() UserCompact {
	c := UserCompact{ID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
	if u.Profile != nil {
		c.AvatarURL = u.Profile.AvatarURL
	}
	return c
}

type RegisterRequest struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=150,alphanum"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

type SignInRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// FirebaseLoginRequest exchanges a Firebase ID token for a local session
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// AuthResponse is returned by every login flow
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
