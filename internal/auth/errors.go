package auth

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates no active teacher has the given user ID
	ErrNotFound = errors.New("teacher not found")
	// ErrDuplicateEmail indicates an active teacher already uses the email
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidFormat indicates the PIN failed the format policy
	ErrInvalidFormat = errors.New("invalid PIN format")
	// ErrInternal wraps storage and audit failures
	ErrInternal = errors.New("internal error")
)

// FormatError carries the policy violations of a rejected PIN
type FormatError struct {
	Errors []string
}

func (e *FormatError) Error() string {
	return ErrInvalidFormat.Error() + ": " + strings.Join(e.Errors, "; ")
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

// Status is the outcome of a PIN validation attempt
type Status string

const (
	StatusSuccess       Status = "success"
	StatusNotFound      Status = "not_found"
	StatusLocked        Status = "locked"
	StatusExpired       Status = "expired"
	StatusInvalidFormat Status = "invalid_format"
	StatusInvalidPin    Status = "invalid_pin"
)

// ValidationResult carries everything a caller needs to render the outcome
// of a PIN validation without re-reading the teacher record
type ValidationResult struct {
	Valid             bool       `json:"valid"`
	Status            Status     `json:"status"`
	Message           string     `json:"message"`
	Locked            bool       `json:"locked"`
	LockedUntil       *time.Time `json:"locked_until,omitempty"`
	RemainingAttempts *int       `json:"remaining_attempts,omitempty"`
	RequiresReset     bool       `json:"requires_reset"`
	Errors            []string   `json:"errors,omitempty"`
}
