package memory

import (
	"context"
	"sync"
	"teacherpin/internal/models"
	"teacherpin/internal/repository"
	"time"

	"github.com/google/uuid"
)

type auditLogRepository struct {
	mu   sync.RWMutex
	logs []models.AuditLog
	now  func() time.Time
}

// NewAuditLogRepository creates an append-only in-memory audit log
func NewAuditLogRepository() repository.AuditLogRepository {
	return &auditLogRepository{now: time.Now}
}

func (r *auditLogRepository) Create(_ context.Context, log *models.CreateAuditLogRequest) error {
	entry := models.AuditLog{
		ID:      uuid.New(),
		UserID:  log.UserID,
		Action:  log.Action,
		Details: log.Details,
	}
	if log.DocumentID != nil {
		documentID := *log.DocumentID
		entry.DocumentID = &documentID
	}

	// Timestamp under the lock so the slice stays in chronological order
	r.mu.Lock()
	entry.CreatedAt = r.now()
	r.logs = append(r.logs, entry)
	r.mu.Unlock()
	return nil
}

func (r *auditLogRepository) List(_ context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, error) {
	// Newest first, like the postgres implementation
	r.mu.RLock()
	matched := make([]models.AuditLog, 0, len(r.logs))
	for i := len(r.logs) - 1; i >= 0; i-- {
		if matches(r.logs[i], filter) {
			matched = append(matched, r.logs[i])
		}
	}
	r.mu.RUnlock()

	if filter.Offset != nil {
		if *filter.Offset >= len(matched) {
			return []models.AuditLog{}, nil
		}
		matched = matched[*filter.Offset:]
	}
	if filter.Limit != nil && *filter.Limit < len(matched) {
		matched = matched[:*filter.Limit]
	}
	return matched, nil
}

func (r *auditLogRepository) GetByUserID(ctx context.Context, userID string, filter repository.AuditLogFilter) ([]models.AuditLog, error) {
	filter.UserID = &userID
	return r.List(ctx, filter)
}

func (r *auditLogRepository) CleanupOld(_ context.Context, olderThan time.Duration) (int64, error) {
	cutoff := r.now().Add(-olderThan)

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.logs[:0]
	var removed int64
	for _, log := range r.logs {
		if log.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, log)
	}
	r.logs = kept
	return removed, nil
}

func matches(log models.AuditLog, filter repository.AuditLogFilter) bool {
	if filter.UserID != nil && log.UserID != *filter.UserID {
		return false
	}
	if len(filter.Actions) > 0 {
		found := false
		for _, a := range filter.Actions {
			if a == log.Action {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.CreatedBefore != nil && !log.CreatedAt.Before(*filter.CreatedBefore) {
		return false
	}
	if filter.CreatedAfter != nil && !log.CreatedAt.After(*filter.CreatedAfter) {
		return false
	}
	return true
}
