package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered community member.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Session is one issued login token. Logout deletes the row, which revokes
// the token even before its JWT expiry.
type Session struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Invite is a single-use registration token handed out by an admin.
type Invite struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Token     string     `db:"token" json:"token"`
	UsedAt    *time.Time `db:"used_at" json:"used_at,omitempty"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// IsUsable reports whether the invite can still redeem a registration.
func (i *Invite) IsUsable(now time.Time) bool {
	return i.UsedAt == nil && now.Before(i.ExpiresAt)
}
