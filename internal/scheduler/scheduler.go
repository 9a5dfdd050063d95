package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/calendar"
)

// EventSource lists events starting inside a window. *calendar.Manager
// implements it.
type EventSource interface {
	Upcoming(now time.Time, window time.Duration) []calendar.Event
	TimeZone() *time.Location
}

// Digest is one upcoming event with its advisory.
type Digest struct {
	Event    calendar.Event
	Advisory string
}

// Scheduler periodically logs advisories for events starting soon.
type Scheduler struct {
	scheduler *gocron.Scheduler
	events    EventSource
	interval  time.Duration
	window    time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// New creates a Scheduler. An interval of zero disables the digest.
func New(events EventSource, interval, window time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(events.TimeZone()),
		events:    events,
		interval:  interval,
		window:    window,
		now:       time.Now,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the digest job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info().Msg("event digest disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.RunDigest()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info().Dur("interval", s.interval).Dur("window", s.window).Msg("event digest scheduled")
	return nil
}

// RunDigest logs and returns the advisories for events starting within the
// window from now.
func (s *Scheduler) RunDigest() []Digest {
	upcoming := s.events.Upcoming(s.now(), s.window)
	out := make([]Digest, 0, len(upcoming))
	for _, e := range upcoming {
		d := Digest{Event: e, Advisory: calendar.DescribeForecastImpact(e)}
		out = append(out, d)
		s.logger.Info().
			Int64("event_id", e.ID).
			Str("title", e.Title).
			Str("date", e.Date).
			Str("time", e.Time).
			Str("advisory", d.Advisory).
			Msg("upcoming event")
	}
	s.logger.Debug().Int("events", len(out)).Msg("event digest completed")
	return out
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
