package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Scheduler runs the server's periodic jobs in the configured zone.
type Scheduler struct {
	cron   *gocron.Scheduler
	logger zerolog.Logger
}

func NewScheduler(location *time.Location, logger zerolog.Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		cron:   gocron.NewScheduler(location),
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
}

// ScheduleDigest runs job once a day at the HH:MM wall-clock time.
func (scheduler *Scheduler) ScheduleDigest(job *AdherenceDigestJob, at string) error {
	at = strings.TrimSpace(at)
	_, err := scheduler.cron.Every(1).Day().At(at).Do(func() {
		if _, err := job.Run(); err != nil {
			scheduler.logger.Error().Err(err).Msg("adherence digest failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule adherence digest at %s: %w", at, err)
	}
	scheduler.logger.Info().Str("at", at).Msg("adherence digest scheduled")
	return nil
}

func (scheduler *Scheduler) ScheduleEvery(name string, every time.Duration, task func()) error {
	if every <= 0 {
		return fmt.Errorf("schedule %s: interval must be positive", name)
	}
	if _, err := scheduler.cron.Every(every).Do(task); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (scheduler *Scheduler) Start() {
	scheduler.cron.StartAsync()
}

func (scheduler *Scheduler) Stop() {
	scheduler.cron.Stop()
}

func (scheduler *Scheduler) Jobs() int {
	return len(scheduler.cron.Jobs())
}
