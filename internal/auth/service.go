// Package auth implements teacher PIN authentication: registration, PIN
// validation with failed-attempt lockout, PIN expiry and reset, and manual
// unlock. Every outcome is reported to an AuditSink before returning.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"teacherpin/internal/metrics"
	"teacherpin/internal/models"
	"teacherpin/internal/pin"
	"teacherpin/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxFailedAttempts is the number of consecutive wrong PINs that locks an account
	MaxFailedAttempts = 3
	// LockoutDuration is how long a lockout lasts when not lifted by Unlock
	LockoutDuration = 15 * time.Minute
	// PinExpiry is the lifetime of a PIN from when it was set
	PinExpiry = 90 * 24 * time.Hour
)

// Clock supplies the current time. Lockout and expiry are evaluated lazily
// against it on every call.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// errUnchanged aborts a Mutate without persisting anything
var errUnchanged = errors.New("unchanged")

// Service provides PIN authentication functionality
type Service struct {
	teachers  repository.TeacherRepository
	hasher    pin.Hasher
	audit     AuditSink
	logger    *zap.Logger
	clock     Clock
	newUserID func() string
	metrics   *metrics.Metrics
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithUserIDGenerator replaces the generator of teacher user IDs
func WithUserIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newUserID = fn }
}

// WithMetrics records outcomes in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new PIN authentication service
func NewService(teachers repository.TeacherRepository, hasher pin.Hasher, audit AuditSink, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		teachers:  teachers,
		hasher:    hasher,
		audit:     audit,
		logger:    logger,
		clock:     systemClock{},
		newUserID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a teacher with the given PIN
func (s *Service) Register(ctx context.Context, name, email, pinCode string) (*models.Teacher, error) {
	normalized := repository.NormalizeEmail(email)
	if res := pin.ValidateFormat(pinCode); !res.OK {
		s.metrics.ObserveRegistration("invalid_format")
		// No record exists yet, so the event has no user ID
		if err := s.record(ctx, "", models.AuditActionRegistrationFailed,
			fmt.Sprintf("email %s: invalid format: %s", normalized, strings.Join(res.Errors, "; "))); err != nil {
			return nil, err
		}
		return nil, &FormatError{Errors: res.Errors}
	}

	hash, err := s.hasher.Hash(pinCode)
	if err != nil {
		return nil, fmt.Errorf("%w: hash PIN: %w", ErrInternal, err)
	}

	now := s.clock.Now()
	teacher := &models.Teacher{
		UserID:       s.newUserID(),
		Name:         strings.TrimSpace(name),
		Email:        normalized,
		PinHash:      hash,
		PinCreatedAt: now,
		PinExpiresAt: now.Add(PinExpiry),
		IsActive:     true,
		CreatedAt:    now,
	}

	// The registry checks active-email uniqueness atomically with the insert
	if err := s.teachers.Create(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.logger.Info("registration rejected: duplicate email", zap.String("email", teacher.Email))
			s.metrics.ObserveRegistration("duplicate_email")
			if err := s.record(ctx, "", models.AuditActionRegistrationFailed,
				fmt.Sprintf("email %s: already registered", teacher.Email)); err != nil {
				return nil, err
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: create teacher: %w", ErrInternal, err)
	}

	if err := s.record(ctx, teacher.UserID, models.AuditActionTeacherRegistered,
		fmt.Sprintf("Teacher %s registered with email %s", teacher.Name, teacher.Email)); err != nil {
		return nil, err
	}

	s.metrics.ObserveRegistration("created")
	s.logger.Info("teacher registered", zap.String("user_id", teacher.UserID), zap.Int64("id", teacher.ID))
	return teacher, nil
}

// ValidatePin checks a PIN attempt. Checks run in a fixed order and stop at
// the first that applies: unknown teacher, active lockout, expired PIN,
// malformed PIN, then hash comparison. Business outcomes are reported in the
// result; the error is only set for internal failures.
func (s *Service) ValidatePin(ctx context.Context, userID, pinCode string) (*ValidationResult, error) {
	now := s.clock.Now()

	var (
		result ValidationResult
		action models.AuditAction
		detail string
	)
	_, err := s.teachers.Mutate(ctx, userID, func(t *models.Teacher) error {
		var changed bool
		result, action, detail, changed = s.checkPin(t, pinCode, now)
		if !changed {
			return errUnchanged
		}
		return nil
	})
	switch {
	case err == nil, errors.Is(err, errUnchanged):
	case errors.Is(err, repository.ErrTeacherNotFound):
		result = ValidationResult{Status: StatusNotFound, Message: "Teacher not found"}
		action = models.AuditActionPinValidationFail
		detail = "not found"
	default:
		return nil, fmt.Errorf("%w: update teacher: %w", ErrInternal, err)
	}

	if err := s.record(ctx, userID, action, detail); err != nil {
		return nil, err
	}

	s.metrics.ObserveValidation(string(result.Status), action == models.AuditActionAccountLocked)
	switch result.Status {
	case StatusSuccess:
		s.logger.Info("PIN validated", zap.String("user_id", userID))
	case StatusLocked:
		s.logger.Warn("PIN validation refused: account locked", zap.String("user_id", userID), zap.Timep("locked_until", result.LockedUntil))
	default:
		s.logger.Info("PIN validation failed", zap.String("user_id", userID), zap.String("status", string(result.Status)))
	}
	return &result, nil
}

// checkPin applies one validation attempt to t and reports whether t changed
func (s *Service) checkPin(t *models.Teacher, pinCode string, now time.Time) (ValidationResult, models.AuditAction, string, bool) {
	if t.IsLocked(now) {
		return lockedResult(*t.LockedUntil), models.AuditActionPinValidationFail,
			fmt.Sprintf("account locked until %s", t.LockedUntil.UTC().Format(time.RFC3339)), false
	}

	changed := false
	if t.LockedUntil != nil {
		// The lockout has elapsed; start counting again
		t.ClearLock()
		changed = true
	}

	if t.IsPinExpired(now) {
		return ValidationResult{
			Status:        StatusExpired,
			Message:       "PIN has expired. Please reset your PIN.",
			RequiresReset: true,
		}, models.AuditActionPinValidationFail, "PIN expired", changed
	}

	if res := pin.ValidateFormat(pinCode); !res.OK {
		return ValidationResult{
			Status:  StatusInvalidFormat,
			Message: "Invalid PIN format",
			Errors:  res.Errors,
		}, models.AuditActionPinValidationFail, "invalid format: " + strings.Join(res.Errors, "; "), changed
	}

	if s.hasher.Verify(pinCode, t.PinHash) {
		t.ClearLock()
		return ValidationResult{
			Valid:   true,
			Status:  StatusSuccess,
			Message: "PIN validated successfully",
		}, models.AuditActionPinValidationOK, "PIN validated", true
	}

	t.FailedAttempts++
	if t.FailedAttempts >= MaxFailedAttempts {
		t.FailedAttempts = MaxFailedAttempts
		lockedUntil := now.Add(LockoutDuration)
		t.LockedUntil = &lockedUntil
		return lockedResult(lockedUntil), models.AuditActionAccountLocked,
			fmt.Sprintf("locked after %d failed attempts until %s", MaxFailedAttempts, lockedUntil.UTC().Format(time.RFC3339)), true
	}

	remaining := MaxFailedAttempts - t.FailedAttempts
	return ValidationResult{
		Status:            StatusInvalidPin,
		Message:           fmt.Sprintf("Invalid PIN. %d attempt(s) remaining.", remaining),
		RemainingAttempts: &remaining,
	}, models.AuditActionPinValidationFail, fmt.Sprintf("invalid PIN, %d attempts remaining", remaining), true
}

func lockedResult(until time.Time) ValidationResult {
	zero := 0
	return ValidationResult{
		Status:            StatusLocked,
		Message:           fmt.Sprintf("Account is locked. Try again after %s.", until.UTC().Format(time.RFC3339)),
		Locked:            true,
		LockedUntil:       &until,
		RemainingAttempts: &zero,
	}
}

// ValidatePinFormat checks PIN syntax without touching any teacher record
func (s *Service) ValidatePinFormat(pinCode string) pin.FormatResult {
	return pin.ValidateFormat(pinCode)
}

// GetTeacher returns the active teacher with the given user ID
func (s *Service) GetTeacher(ctx context.Context, userID string) (*models.Teacher, error) {
	teacher, err := s.teachers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTeacherNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get teacher: %w", ErrInternal, err)
	}
	return teacher, nil
}

// ResetPin sets a new PIN, restarts its expiry and lifts any lockout
func (s *Service) ResetPin(ctx context.Context, userID, newPin string) (bool, error) {
	res := pin.ValidateFormat(newPin)
	var hash string
	if res.OK {
		var err error
		if hash, err = s.hasher.Hash(newPin); err != nil {
			return false, fmt.Errorf("%w: hash PIN: %w", ErrInternal, err)
		}
	}

	now := s.clock.Now()
	_, err := s.teachers.Mutate(ctx, userID, func(t *models.Teacher) error {
		if !res.OK {
			return &FormatError{Errors: res.Errors}
		}
		t.PinHash = hash
		t.PinCreatedAt = now
		t.PinExpiresAt = now.Add(PinExpiry)
		t.ClearLock()
		return nil
	})

	var formatErr *FormatError
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrTeacherNotFound):
		if auditErr := s.record(ctx, userID, models.AuditActionPinResetFailed, "not found"); auditErr != nil {
			return false, auditErr
		}
		return false, ErrNotFound
	case errors.As(err, &formatErr):
		if auditErr := s.record(ctx, userID, models.AuditActionPinResetFailed, "invalid format: "+strings.Join(formatErr.Errors, "; ")); auditErr != nil {
			return false, auditErr
		}
		return false, formatErr
	default:
		return false, fmt.Errorf("%w: update teacher: %w", ErrInternal, err)
	}

	if err := s.record(ctx, userID, models.AuditActionPinReset,
		fmt.Sprintf("PIN reset, expires %s", now.Add(PinExpiry).UTC().Format(time.RFC3339))); err != nil {
		return false, err
	}
	s.logger.Info("PIN reset", zap.String("user_id", userID))
	return true, nil
}

// Unlock clears the failed attempt counter and any lockout without
// requiring the PIN. It is the only way to lift a lockout early.
func (s *Service) Unlock(ctx context.Context, userID string) (bool, error) {
	_, err := s.teachers.Mutate(ctx, userID, func(t *models.Teacher) error {
		t.ClearLock()
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrTeacherNotFound):
		if auditErr := s.record(ctx, userID, models.AuditActionUnlockFailed, "not found"); auditErr != nil {
			return false, auditErr
		}
		return false, ErrNotFound
	default:
		return false, fmt.Errorf("%w: update teacher: %w", ErrInternal, err)
	}

	if err := s.record(ctx, userID, models.AuditActionAccountUnlocked, "failed attempts cleared"); err != nil {
		return false, err
	}
	s.logger.Info("account unlocked", zap.String("user_id", userID))
	return true, nil
}

// Deactivate soft-deletes a teacher. The record is kept for audit history
// but no longer resolves and frees its email for a new registration.
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	if err := s.teachers.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrTeacherNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: deactivate teacher: %w", ErrInternal, err)
	}

	if err := s.record(ctx, userID, models.AuditActionTeacherDeactivated, "teacher deactivated"); err != nil {
		return err
	}
	s.logger.Info("teacher deactivated", zap.String("user_id", userID))
	return nil
}

// record writes an audit event. A failed write fails the calling operation.
func (s *Service) record(ctx context.Context, userID string, action models.AuditAction, details string) error {
	err := s.audit.Log(ctx, AuditEvent{UserID: userID, Action: action, Details: details})
	if err != nil {
		s.metrics.ObserveAuditFailure()
		s.logger.Error("audit write failed",
			zap.String("user_id", userID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: audit write: %w", ErrInternal, err)
	}
	return nil
}
