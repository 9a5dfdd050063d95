// Package dashboard ties the weather service, the location and calendar
// managers, the theme and the view router together behind the operations
// the front ends expose.
package dashboard

import (
	"context"
	"errors"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/calendar"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/theme"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrSuperseded is returned for a search whose response arrived after a
// newer search had been issued. Its result is discarded.
var ErrSuperseded = errors.New("search superseded by a newer request")

// Status is the lifecycle of the displayed search.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// SearchState is what the weather view displays.
type SearchState struct {
	Status  Status
	City    string           // last city searched
	Reading *weather.Reading // nil when nothing is displayed
	Message string           // user-facing failure text
}

// CurrentFetcher fetches current conditions. *weather.Service implements it.
type CurrentFetcher interface {
	FetchCurrent(ctx context.Context, city string) (weather.Reading, error)
}

// Config wires a Dashboard.
type Config struct {
	Store       store.Store
	Weather     CurrentFetcher
	Locations   *location.Manager
	Calendar    *calendar.Manager
	Theme       *theme.Manager
	DefaultCity string
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics
}

// Dashboard is the shared state behind every view.
type Dashboard struct {
	mu    sync.Mutex
	seq   uint64
	state SearchState

	router      *Router
	store       store.Store
	weather     CurrentFetcher
	locations   *location.Manager
	calendar    *calendar.Manager
	theme       *theme.Manager
	defaultCity string
	logger      zerolog.Logger
	metrics     *metrics.Metrics

	unsubscribe func()
}

// New creates a Dashboard. Call Start before use.
func New(cfg Config) *Dashboard {
	return &Dashboard{
		router:      NewRouter(),
		store:       cfg.Store,
		weather:     cfg.Weather,
		locations:   cfg.Locations,
		calendar:    cfg.Calendar,
		theme:       cfg.Theme,
		defaultCity: cfg.DefaultCity,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// Start hydrates every manager from the store and starts following the
// current location. When no current location was saved, the default city is
// searched; a failure of that search is reported in the search state only.
func (d *Dashboard) Start(ctx context.Context) error {
	if err := d.locations.Hydrate(); err != nil {
		return err
	}
	if err := d.calendar.Hydrate(); err != nil {
		return err
	}
	d.unsubscribe = d.store.Subscribe(store.KeyCurrentLocation, d.onCurrentLocation)

	if current, ok := d.locations.Current(); ok {
		d.mu.Lock()
		d.state = SearchState{Status: StatusSuccess, City: current.PlaceName, Reading: &current}
		d.mu.Unlock()
		return nil
	}
	if d.defaultCity != "" {
		if _, err := d.Search(ctx, d.defaultCity); err != nil {
			d.logger.Warn().Err(err).Str("city", d.defaultCity).Msg("default city search failed")
		}
	}
	return nil
}

// Close stops following the store.
func (d *Dashboard) Close() {
	if d.unsubscribe != nil {
		d.unsubscribe()
	}
}

// onCurrentLocation keeps the displayed reading in step with the persisted
// current location. It runs on the writer's goroutine and must not call
// back into the location manager.
func (d *Dashboard) onCurrentLocation(value []byte) {
	if value == nil {
		return
	}
	var r weather.Reading
	if err := json.Unmarshal(value, &r); err != nil {
		d.logger.Warn().Err(err).Msg("ignoring undecodable current location")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Reading = &r
	if d.state.Status != StatusLoading {
		d.state.Status = StatusSuccess
		d.state.Message = ""
	}
}

// Ticket identifies one issued search.
type Ticket struct {
	seq  uint64
	city string
}

// City returns the searched place name.
func (t Ticket) City() string { return t.city }

// BeginSearch validates city and marks the search as loading. Validation
// failures leave the state untouched. Every ticket issued supersedes the
// previous ones.
func (d *Dashboard) BeginSearch(city string) (Ticket, error) {
	if err := weather.ValidateCity(city); err != nil {
		return Ticket{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.state.Status = StatusLoading
	d.state.City = city
	d.state.Message = ""
	return Ticket{seq: d.seq, city: city}, nil
}

// FinishSearch performs the search for t. The outcome is applied only when t
// is still the latest ticket; otherwise ErrSuperseded is returned and the
// state is left to the newer search. A failed search clears the displayed
// reading; a successful one becomes the current location and the newest
// history entry.
func (d *Dashboard) FinishSearch(ctx context.Context, t Ticket) (weather.Reading, error) {
	reading, err := d.weather.FetchCurrent(ctx, t.city)

	d.mu.Lock()
	if t.seq != d.seq {
		d.mu.Unlock()
		d.metrics.ObserveSuperseded()
		d.logger.Debug().Str("city", t.city).Uint64("seq", t.seq).Msg("discarding superseded search response")
		return weather.Reading{}, ErrSuperseded
	}
	if err != nil {
		d.state = SearchState{Status: StatusError, City: t.city, Message: weather.UserMessage(err)}
		d.mu.Unlock()
		return weather.Reading{}, err
	}
	d.state = SearchState{Status: StatusSuccess, City: t.city, Reading: &reading}
	d.mu.Unlock()

	if err := d.locations.RecordSearchResult(reading); err != nil {
		return reading, err
	}
	return reading, nil
}

// Search runs a complete search.
func (d *Dashboard) Search(ctx context.Context, city string) (weather.Reading, error) {
	t, err := d.BeginSearch(city)
	if err != nil {
		return weather.Reading{}, err
	}
	return d.FinishSearch(ctx, t)
}

// SelectFromHistory makes the history entry with the given id the current
// location and switches to the locations view.
func (d *Dashboard) SelectFromHistory(id int64) (weather.Reading, bool, error) {
	r, ok, err := d.locations.SelectFromHistory(id)
	if !ok {
		return r, false, err
	}
	d.router.Select(ViewLocations)
	return r, true, err
}

// SearchState returns a snapshot of the weather view state.
func (d *Dashboard) SearchState() SearchState {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	if s.Reading != nil {
		r := *s.Reading
		s.Reading = &r
	}
	return s
}

func (d *Dashboard) Router() *Router              { return d.router }
func (d *Dashboard) Locations() *location.Manager { return d.locations }
func (d *Dashboard) Calendar() *calendar.Manager  { return d.calendar }
func (d *Dashboard) Theme() *theme.Manager        { return d.theme }
