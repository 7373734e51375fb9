// Package postgres provides PostgreSQL implementations of the repositories
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"teacherpin/internal/models"
	"teacherpin/internal/repository"
	"time"

	"github.com/lib/pq"
)

const activeEmailIndex = "idx_teachers_active_email"

const teacherColumns = `id, user_id, name, email, pin_hash, pin_created_at, pin_expires_at,
	failed_attempts, locked_until, is_active, created_at`

type teacherRepository struct {
	repository.BaseRepository
}

// NewTeacherRepository creates a new PostgreSQL teacher repository
func NewTeacherRepository(db *sql.DB) repository.TeacherRepository {
	return &teacherRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTeacher(row rowScanner) (*models.Teacher, error) {
	var (
		t           models.Teacher
		lockedUntil sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Email,
		&t.PinHash,
		&t.PinCreatedAt,
		&t.PinExpiresAt,
		&t.FailedAttempts,
		&lockedUntil,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTeacherNotFound
		}
		return nil, err
	}
	if lockedUntil.Valid {
		t.LockedUntil = &lockedUntil.Time
	}
	return &t, nil
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (
			user_id, name, email, pin_hash, pin_created_at, pin_expires_at,
			failed_attempts, locked_until, is_active, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING id`

	teacher.Email = repository.NormalizeEmail(teacher.Email)
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = time.Now()
	}

	// The partial unique index on active emails makes the check and the
	// insert a single atomic step
	err := r.DB().QueryRowContext(ctx, query,
		teacher.UserID,
		teacher.Name,
		teacher.Email,
		teacher.PinHash,
		teacher.PinCreatedAt,
		teacher.PinExpiresAt,
		teacher.FailedAttempts,
		teacher.LockedUntil,
		teacher.IsActive,
		teacher.CreatedAt,
	).Scan(&teacher.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			if pqErr.Constraint == activeEmailIndex {
				return repository.ErrEmailExists
			}
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE user_id = $1 AND is_active`
	return scanTeacher(r.DB().QueryRowContext(ctx, query, userID))
}

func (r *teacherRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE email = $1 AND is_active`
	return scanTeacher(r.DB().QueryRowContext(ctx, query, repository.NormalizeEmail(email)))
}

func (r *teacherRepository) Mutate(ctx context.Context, userID string, fn func(t *models.Teacher) error) (*models.Teacher, error) {
	var result *models.Teacher
	err := r.Transaction(ctx, func(tx *sql.Tx) error {
		// Row lock serializes concurrent attempts against the same teacher
		query := `SELECT ` + teacherColumns + ` FROM teachers WHERE user_id = $1 AND is_active FOR UPDATE`
		t, err := scanTeacher(tx.QueryRowContext(ctx, query, userID))
		if err != nil {
			return err
		}

		if err := fn(t); err != nil {
			return err
		}

		update := `
			UPDATE teachers
			SET name = $1,
				pin_hash = $2,
				pin_created_at = $3,
				pin_expires_at = $4,
				failed_attempts = $5,
				locked_until = $6
			WHERE id = $7`
		if _, err := tx.ExecContext(ctx, update,
			t.Name,
			t.PinHash,
			t.PinCreatedAt,
			t.PinExpiresAt,
			t.FailedAttempts,
			t.LockedUntil,
			t.ID,
		); err != nil {
			return err
		}

		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *teacherRepository) Deactivate(ctx context.Context, userID string) error {
	result, err := r.DB().ExecContext(ctx,
		`UPDATE teachers SET is_active = false WHERE user_id = $1 AND is_active`, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrTeacherNotFound
	}
	return nil
}
