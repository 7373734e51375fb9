package jobs

import (
	"context"
	"fmt"
	"teacherpin/internal/repository"
	"time"

	"go.uber.org/zap"
)

// AuditRetentionJob deletes audit entries older than the retention period.
// Teacher records are never purged; only their audit history ages out.
type AuditRetentionJob struct {
	auditRepo repository.AuditLogRepository
	retention time.Duration
	logger    *zap.Logger
}

// NewAuditRetentionJob creates the retention job
func NewAuditRetentionJob(auditRepo repository.AuditLogRepository, retention time.Duration, logger *zap.Logger) *AuditRetentionJob {
	return &AuditRetentionJob{auditRepo: auditRepo, retention: retention, logger: logger}
}

func (j *AuditRetentionJob) Name() string { return "audit-retention" }

func (j *AuditRetentionJob) Run(ctx context.Context) error {
	if j.retention <= 0 {
		return nil
	}

	removed, err := j.auditRepo.CleanupOld(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("cleanup audit logs: %w", err)
	}

	j.logger.Info("audit logs cleaned up", zap.Int64("removed", removed), zap.Duration("retention", j.retention))
	return nil
}
