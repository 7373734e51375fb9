package repository

import (
	"context"
	"teacherpin/internal/models"
	"time"
)

// AuditLogRepository defines the interface for audit log operations
type AuditLogRepository interface {
	Create(ctx context.Context, log *models.CreateAuditLogRequest) error
	List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, error)
	GetByUserID(ctx context.Context, userID string, filter AuditLogFilter) ([]models.AuditLog, error)
	// CleanupOld deletes entries created before now minus olderThan and
	// reports how many were removed
	CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error)
}

// AuditLogFilter defines the filter options for listing audit logs
type AuditLogFilter struct {
	UserID        *string              // Filter by teacher user ID
	Actions       []models.AuditAction // Filter by actions
	CreatedBefore *time.Time           // Filter by creation time
	CreatedAfter  *time.Time           // Filter by creation time
	Limit         *int                 // Limit results
	Offset        *int                 // Offset results
}
