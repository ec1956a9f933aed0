// Package scheduler runs the periodic mission jobs in-process, for
// deployments that have no external cron hitting the HTTP endpoints.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"notiyou/internal/logger"

	"github.com/go-co-op/gocron"
)

type Job struct {
	Name string
	// Spec is a five-field cron expression.
	Spec string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	cron *gocron.Scheduler
}

// New registers every job on a scheduler in loc. A run still in progress
// when the next tick fires is not started twice.
func New(loc *time.Location, jobs ...Job) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	for _, j := range jobs {
		if _, err := s.Cron(j.Spec).Tag(j.Name).Do(func() { runJob(context.Background(), j) }); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", j.Name, err)
		}
	}
	return &Scheduler{cron: s}, nil
}

func (s *Scheduler) Len() int { return s.cron.Len() }

func (s *Scheduler) Start() { s.cron.StartAsync() }

func (s *Scheduler) Stop() { s.cron.Stop() }

func runJob(ctx context.Context, j Job) error {
	log := logger.FromContext(ctx).With("job", j.Name)
	start := time.Now()
	if err := j.Run(logger.WithContext(ctx, log)); err != nil {
		log.Error("scheduler.job_failed", "err", err, "elapsed_ms", time.Since(start).Milliseconds())
		return err
	}
	log.Info("scheduler.job_done", "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
