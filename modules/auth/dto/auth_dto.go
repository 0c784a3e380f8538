package dto

import (
	"time"

	"community-calendar/modules/auth/entity"

	"github.com/google/uuid"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	InviteToken string `json:"invite_token"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public shape of a user.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// LoginResult carries the session token alongside the user so the controller
// can set the cookie.
type LoginResult struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"-"`
	ExpiresAt time.Time     `json:"-"`
}

// InviteResponse is returned by POST /invite.
type InviteResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
