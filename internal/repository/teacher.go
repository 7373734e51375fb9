package repository

import (
	"context"
	"strings"
	"teacherpin/internal/models"
)

// TeacherRepository stores teacher authentication records keyed by user ID.
// Lookups only ever return active records.
type TeacherRepository interface {
	// Create assigns ID and CreatedAt and inserts the record. The active-email
	// uniqueness check and the insert are atomic; ErrEmailExists is returned
	// when another active record already uses the email.
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByUserID(ctx context.Context, userID string) (*models.Teacher, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.Teacher, error)
	// Mutate applies fn to the record under an exclusive per-record lock and
	// persists the result. Nothing is persisted when fn returns an error.
	// The returned teacher is a copy of the stored state after fn.
	Mutate(ctx context.Context, userID string, fn func(t *models.Teacher) error) (*models.Teacher, error)
	// Deactivate soft-deletes the record; it is retained for audit integrity
	Deactivate(ctx context.Context, userID string) error
}

// NormalizeEmail is the form in which emails are stored and compared
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
