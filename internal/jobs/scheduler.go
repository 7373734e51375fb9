// Package jobs runs periodic maintenance tasks on cron schedules
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ErrJobNotFound = errors.New("job not found")

// Job is a unit of periodic work
type Job interface {
	// Name returns the unique name of the job
	Name() string
	// Run executes one pass of the job
	Run(ctx context.Context) error
}

type scheduledJob struct {
	job      Job
	schedule string
}

// Scheduler runs registered jobs on their schedules
type Scheduler struct {
	jobs   []scheduledJob
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a scheduler using five-field cron specs
func NewScheduler(logger *zap.Logger) *Scheduler {
	// Create a new cron scheduler with seconds disabled
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Scheduler{
		cron:   c,
		logger: logger,
	}
}

// Register adds a job to run on schedule
func (s *Scheduler) Register(schedule string, job Job) {
	s.jobs = append(s.jobs, scheduledJob{job: job, schedule: schedule})
}

// RunJob executes a registered job immediately
func (s *Scheduler) RunJob(ctx context.Context, name string) error {
	for _, sj := range s.jobs {
		if sj.job.Name() == name {
			return sj.job.Run(ctx)
		}
	}
	return ErrJobNotFound
}

// Start schedules every registered job and blocks until ctx is done
func (s *Scheduler) Start(ctx context.Context) error {
	for _, sj := range s.jobs {
		if sj.schedule == "" {
			return fmt.Errorf("job %s has no schedule configured", sj.job.Name())
		}

		job := sj.job
		_, err := s.cron.AddFunc(sj.schedule, func() {
			s.logger.Info("running scheduled job", zap.String("job", job.Name()))
			if err := job.Run(ctx); err != nil {
				s.logger.Error("scheduled job failed", zap.String("job", job.Name()), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
		}

		s.logger.Info("scheduled job", zap.String("job", job.Name()), zap.String("schedule", sj.schedule))
	}

	s.cron.Start()
	<-ctx.Done()

	s.logger.Info("stopping job scheduler")
	<-s.cron.Stop().Done()
	return nil
}
