package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"teacherpin/internal/models"
	"teacherpin/internal/repository"
	"teacherpin/internal/repository/memory"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_RunJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	job := &countingJob{}
	s.Register("@every 1h", job)

	require.NoError(t, s.RunJob(context.Background(), "counting"))
	require.EqualValues(t, 1, job.runs.Load())

	require.ErrorIs(t, s.RunJob(context.Background(), "missing"), ErrJobNotFound)
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  string
	}{
		{name: "Missing Schedule", schedule: "", wantErr: "has no schedule configured"},
		{name: "Invalid Schedule", schedule: "every day", wantErr: "failed to schedule job"},
		{name: "Valid Schedule", schedule: "0 3 * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(zap.NewNop())
			s.Register(tt.schedule, &countingJob{err: errors.New("ignored")})

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			err := s.Start(ctx)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAuditRetentionJob(t *testing.T) {
	ctx := context.Background()
	auditRepo := memory.NewAuditLogRepository()
	require.NoError(t, auditRepo.Create(ctx, &models.CreateAuditLogRequest{
		UserID: "teacher-1",
		Action: models.AuditActionTeacherRegistered,
	}))

	// Nothing is old enough yet
	job := NewAuditRetentionJob(auditRepo, 24*time.Hour, zap.NewNop())
	require.NoError(t, job.Run(ctx))
	logs, err := auditRepo.List(ctx, repository.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	// Zero retention disables cleanup
	require.NoError(t, NewAuditRetentionJob(auditRepo, 0, zap.NewNop()).Run(ctx))
	logs, err = auditRepo.List(ctx, repository.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, NewAuditRetentionJob(auditRepo, time.Millisecond, zap.NewNop()).Run(ctx))
	logs, err = auditRepo.List(ctx, repository.AuditLogFilter{})
	require.NoError(t, err)
	require.Empty(t, logs)
}
