package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID    int      `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`

	// PasswordHash is empty for OAuth accounts.
	PasswordHash *string `json:"-"`

	IsEmailVerified        bool    `json:"is_email_verified"`
	EmailVerificationToken *string `json:"-"` // single-use, cleared on verify

	OAuthProvider *string `json:"oauth_provider,omitempty"`
	OAuthID       *string `json:"-"`

	ReceiveNotifications bool  `json:"receive_notifications"`
	TelegramChatID       int64 `json:"-"` // 0 = not linked

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	Role     UserRole `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
