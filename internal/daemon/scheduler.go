package daemon

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// Scheduler wraps a gocron scheduler running one periodic task.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.InternalError("failed to create scheduler").WithCause(err).Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop waits for running tasks and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs task every interval, starting immediately. Runs never
// overlap: a tick that fires while the task is still running is skipped.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, task func()) (uuid.UUID, error) {
	if interval <= 0 {
		return uuid.Nil, errors.ValidationError("schedule interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return uuid.Nil, errors.InternalError("failed to schedule job").
			WithCause(err).
			WithContext("name", name).
			Build()
	}
	return job.ID(), nil
}

// Reschedule changes the interval of job id in place. The next run is one
// interval away; on error the job keeps its previous schedule.
func (s *Scheduler) Reschedule(id uuid.UUID, name string, interval time.Duration, task func()) error {
	if interval <= 0 {
		return errors.ValidationError("schedule interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	_, err := s.scheduler.Update(id,
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.InternalError("failed to reschedule job").
			WithCause(err).
			WithContext("name", name).
			Build()
	}
	return nil
}

// RunNow triggers job id once without altering its schedule.
func (s *Scheduler) RunNow(id uuid.UUID) error {
	for _, job := range s.scheduler.Jobs() {
		if job.ID() == id {
			return job.RunNow()
		}
	}
	return errors.NotFoundError("job not found").WithContext("id", id.String()).Build()
}
