package calendar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// MsgLocationRequired is reported when an event has no location.
const MsgLocationRequired = "Location is required to check weather forecast"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

var fieldMessages = map[string]string{
	"Location": MsgLocationRequired,
	"Title":    "Event title is required",
	"Date":     "Date must be in YYYY-MM-DD format",
	"Time":     "Time must be in HH:MM format",
}

// ValidateDraft checks a draft before any forecast is requested. A missing
// location is reported ahead of any other problem.
func ValidateDraft(d Draft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	for _, fe := range verrs {
		if fe.Field() == "Location" {
			first = fe
			break
		}
	}
	return &weather.ValidationError{
		Field:   strings.ToLower(first.Field()),
		Message: fieldMessages[first.Field()],
	}
}

// Forecaster provides the forecast snapshot captured with a new event.
type Forecaster interface {
	FetchForecastNear(ctx context.Context, city string, target time.Time) (weather.ForecastSnapshot, error)
}

// Manager owns the event list and the event form draft. The list is
// persisted under store.KeyEvents on every change.
type Manager struct {
	mu     sync.RWMutex
	events []Event
	draft  Draft

	store      store.Store
	forecaster Forecaster
	ids        *common.IDSource
	now        func() time.Time
	tz         *time.Location
	logger     zerolog.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock sets the clock used for default drafts.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDSource sets the source of event identifiers.
func WithIDSource(ids *common.IDSource) Option {
	return func(m *Manager) { m.ids = ids }
}

// WithTimeZone sets the zone event dates and times are interpreted in.
func WithTimeZone(tz *time.Location) Option {
	return func(m *Manager) { m.tz = tz }
}

// WithLogger sets the manager logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an empty Manager.
func NewManager(s store.Store, f Forecaster, opts ...Option) *Manager {
	m := &Manager{
		store:      s,
		forecaster: f,
		now:        time.Now,
		tz:         time.Local,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ids == nil {
		m.ids = common.NewIDSource(m.now)
	}
	m.draft = NewDraft(m.now(), m.tz)
	return m
}

// Hydrate replaces the event list with what the store holds.
func (m *Manager) Hydrate() error {
	var events []Event
	if _, err := store.LoadJSON(m.store, store.KeyEvents, &events); err != nil {
		return fmt.Errorf("hydrate events: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	if len(events) > 0 {
		m.events = events
	}
	m.logger.Debug().Int("events", len(events)).Msg("events hydrated")
	return nil
}

// Draft returns the current form draft.
func (m *Manager) Draft() Draft {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.draft
}

// SetDraft replaces the form draft.
func (m *Manager) SetDraft(d Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = d
}

// AddEvent validates d, captures the forecast nearest to the event's start
// and appends the new event. On any failure the event list is unchanged.
// On success the form draft is reset to its defaults.
func (m *Manager) AddEvent(ctx context.Context, d Draft) (Event, error) {
	if err := ValidateDraft(d); err != nil {
		return Event{}, err
	}
	when, err := combine(d.Date, d.Time, m.tz)
	if err != nil {
		return Event{}, &weather.ValidationError{Field: "date", Message: fieldMessages["Date"]}
	}

	forecast, err := m.forecaster.FetchForecastNear(ctx, d.Location, when)
	if err != nil {
		m.logger.Warn().Err(err).Str("location", d.Location).Msg("event forecast failed")
		return Event{}, err
	}

	event := Event{
		Title:     d.Title,
		Date:      d.Date,
		Time:      d.Time,
		Location:  d.Location,
		IsOutdoor: d.IsOutdoor,
		ID:        m.ids.Next(),
		Forecast:  forecast,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(slices.Clone(m.events), event)
	if err := m.persistLocked(); err != nil {
		return event, err
	}
	m.draft = NewDraft(m.now(), m.tz)

	m.logger.Info().
		Int64("id", event.ID).
		Str("title", event.Title).
		Str("location", event.Location).
		Str("forecast", event.Forecast.Description).
		Msg("event added")
	return event, nil
}

// DeleteEvent removes the event with the given id and persists the list.
// Unknown ids are ignored.
func (m *Manager) DeleteEvent(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.events, func(e Event) bool { return e.ID == id })
	if idx < 0 {
		return nil
	}
	m.events = slices.Delete(slices.Clone(m.events), idx, idx+1)
	return m.persistLocked()
}

// Events returns a copy of the event list in insertion order.
func (m *Manager) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.events)
}

// Event returns the event with the given id.
func (m *Manager) Event(id int64) (Event, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx := slices.IndexFunc(m.events, func(e Event) bool { return e.ID == id })
	if idx < 0 {
		return Event{}, false
	}
	return m.events[idx], true
}

// Upcoming returns the events starting in [now, now+window), in insertion
// order. Events with unparseable dates are skipped.
func (m *Manager) Upcoming(now time.Time, window time.Duration) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	end := now.Add(window)
	var out []Event
	for _, e := range m.events {
		when, err := e.When(m.tz)
		if err != nil {
			continue
		}
		if !when.Before(now) && when.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

// TimeZone returns the zone event times are interpreted in.
func (m *Manager) TimeZone() *time.Location {
	return m.tz
}

func (m *Manager) persistLocked() error {
	events := m.events
	if events == nil {
		events = []Event{}
	}
	if err := store.SaveJSON(m.store, store.KeyEvents, events); err != nil {
		m.logger.Error().Err(err).Msg("persist events failed")
		return err
	}
	return nil
}
