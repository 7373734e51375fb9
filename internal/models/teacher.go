package models

import (
	"time"
)

// Teacher is the authentication subject: identity plus PIN, attempt, lock and
// expiry state
type Teacher struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PinHash        string     `json:"-"`
	PinCreatedAt   time.Time  `json:"pin_created_at"`
	PinExpiresAt   time.Time  `json:"pin_expires_at"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsLocked reports whether a lockout is in effect at now. A lock whose
// deadline has passed is stale and ignored.
func (t *Teacher) IsLocked(now time.Time) bool {
	return t.LockedUntil != nil && t.LockedUntil.After(now)
}

// IsPinExpired reports whether the current PIN is past its expiry at now
func (t *Teacher) IsPinExpired(now time.Time) bool {
	return now.After(t.PinExpiresAt)
}

// ClearLock zeroes the failed attempt counter and lifts any lockout
func (t *Teacher) ClearLock() {
	t.FailedAttempts = 0
	t.LockedUntil = nil
}

// RegisterTeacherRequest represents the request to register a new teacher
type RegisterTeacherRequest struct {
	Name  string `json:"name" binding:"required,max=100,nospaces"`
	Email string `json:"email" binding:"required,email"`
	Pin   string `json:"pin"`
}

// ValidatePinRequest represents a PIN validation attempt
type ValidatePinRequest struct {
	Pin string `json:"pin"`
}

// ResetPinRequest represents the request to set a new PIN
type ResetPinRequest struct {
	NewPin string `json:"new_pin"`
}
