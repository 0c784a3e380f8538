package dto

import (
	"time"

	"github.com/google/uuid"
)

// UpdateProfileRequest is the body of PUT /profiles/me.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// ProfileResponse is the profile shape served back to the owner.
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	EventCount  int       `json:"event_count"`
	CreatedAt   time.Time `json:"created_at"`
}
