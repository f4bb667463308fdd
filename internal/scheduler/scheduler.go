package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-tracker/internal/weather"
)

// Job is a collection batch, satisfied by *weather.Collector.
type Job interface {
	Run(ctx context.Context) (weather.RunResult, error)
}

// Scheduler runs the collector once a day at a fixed local time.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       Job
	at        string
	timeout   time.Duration
}

// New creates a new Scheduler. at is "HH:MM" in loc; timeout bounds one batch.
func New(job Job, at string, loc *time.Location, timeout time.Duration) *Scheduler {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		job:       job,
		at:        at,
		timeout:   timeout,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	_, next := s.scheduler.NextRun()
	log.Printf("scheduler: daily collection at %s, next run %s", s.at, next.Format(time.RFC3339))
	return nil
}

func (s *Scheduler) runOnce() {
	log.Println("scheduler: running weather collection job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.job.Run(ctx); err != nil {
		log.Printf("ERROR: scheduler: collection failed: %v", err)
		return
	}
	log.Println("scheduler: completed weather collection job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
