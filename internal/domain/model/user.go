package model

import (
	"time"
)

const (
	RoleParticipant = "participant"
	RoleAdmin       = "admin"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UserProfile is the identity projection created lazily on first sign-in.
type UserProfile struct {
	ID            string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	Role          string    `json:"role"`
	Theme         string    `json:"theme"`
	Notifications bool      `json:"notifications"`
	JoinedAt      time.Time `json:"joined_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin
}
