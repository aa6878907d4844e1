package domain

import (
	"time"

	"github.com/google/uuid"
)

// User holds the account identity and its lockout bookkeeping. PasswordHash is
// empty only for accounts provisioned through Google sign-in; those accounts
// cannot log in with a password.
type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Username       string    `json:"username" gorm:"not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"not null;default:''"`
	AvatarURL      string    `json:"avatarUrl"`
	FailedAttempts int       `json:"-" gorm:"not null;default:0"`
	LockedUntil    time.Time `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Locked reports whether the account rejects login attempts at the given time.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil.After(now)
}

// Session is a bearer-token grant. ID is the hex-encoded SHA-256 of the raw
// token; the raw token itself is never stored. A row whose ExpiresAt has
// passed is treated as absent by all readers.
type Session struct {
	ID        string    `json:"-" gorm:"primary_key"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
