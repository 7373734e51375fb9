package auth

import (
	"context"
	"teacherpin/internal/models"
	"teacherpin/internal/repository"
)

// AuditEvent is a single security-relevant event
type AuditEvent struct {
	UserID     string
	Action     models.AuditAction
	Details    string
	DocumentID *string
}

// AuditSink receives every authentication event. Log must complete before
// the operation that produced the event returns; its error aborts that
// operation.
type AuditSink interface {
	Log(ctx context.Context, event AuditEvent) error
}

// RepositorySink writes audit events to an audit log repository
type RepositorySink struct {
	repo repository.AuditLogRepository
}

// NewRepositorySink creates an audit sink backed by repo
func NewRepositorySink(repo repository.AuditLogRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

// Log stores the event synchronously
func (s *RepositorySink) Log(ctx context.Context, event AuditEvent) error {
	return s.repo.Create(ctx, &models.CreateAuditLogRequest{
		UserID:     event.UserID,
		Action:     event.Action,
		Details:    event.Details,
		DocumentID: event.DocumentID,
	})
}
