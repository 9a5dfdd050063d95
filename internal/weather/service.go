package weather

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/metrics"
)

// Service turns place names into normalized readings and forecast snapshots
// using a single Provider.
type Service struct {
	provider Provider
	icons    IconTable
	ids      *common.IDSource
	now      func() time.Time
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// Option customizes a Service.
type Option func(*Service)

// WithIconTable replaces the default icon table.
func WithIconTable(t IconTable) Option {
	return func(s *Service) { s.icons = t }
}

// WithClock sets the clock used for CapturedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDSource sets the source of reading identifiers.
func WithIDSource(ids *common.IDSource) Option {
	return func(s *Service) { s.ids = ids }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new Service.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		icons:    DefaultIconTable(),
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = common.NewIDSource(s.now)
	}
	return s
}

// ValidateCity rejects empty and whitespace-only place names.
func ValidateCity(city string) error {
	if strings.TrimSpace(city) == "" {
		return &ValidationError{Field: "city", Message: MsgCityRequired}
	}
	return nil
}

// FetchCurrent fetches the current conditions for city and normalizes them
// into a Reading.
func (s *Service) FetchCurrent(ctx context.Context, city string) (Reading, error) {
	if err := ValidateCity(city); err != nil {
		s.metrics.ObserveQuery("current", Outcome(err))
		return Reading{}, err
	}

	cond, err := s.provider.Current(ctx, city)
	s.metrics.ObserveQuery("current", Outcome(err))
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", s.provider.Name()).Str("city", city).Msg("current weather query failed")
		return Reading{}, err
	}

	reading := s.normalize(cond)
	s.logger.Debug().
		Str("city", city).
		Int64("id", reading.ID).
		Int("temperatureC", reading.TemperatureC).
		Int("windKph", reading.WindSpeedKph).
		Msg("current weather fetched")
	return reading, nil
}

func (s *Service) normalize(c CurrentConditions) Reading {
	return Reading{
		PlaceName:       c.PlaceName,
		DisplayName:     common.CapitalizeFirst(c.PlaceName),
		Coordinates:     c.Coordinates,
		TemperatureC:    int(math.Floor(c.TempC)),
		Condition:       c.Condition,
		HumidityPercent: c.Humidity,
		WindSpeedKph:    common.RoundHalfUp(c.WindSpeedMS * 3.6),
		Icon:            s.icons.Lookup(c.IconCode),
		CapturedAt:      s.now().UTC(),
		ID:              s.ids.Next(),
	}
}

// FetchForecastNear fetches the forecast series for city and returns the
// entry closest in time to target.
func (s *Service) FetchForecastNear(ctx context.Context, city string, target time.Time) (ForecastSnapshot, error) {
	if err := ValidateCity(city); err != nil {
		s.metrics.ObserveQuery("forecast", Outcome(err))
		return ForecastSnapshot{}, err
	}

	points, err := s.provider.Forecast(ctx, city)
	if err == nil && len(points) == 0 {
		err = &QueryError{Message: MsgNoForecastPoints}
	}
	s.metrics.ObserveQuery("forecast", Outcome(err))
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", s.provider.Name()).Str("city", city).Msg("forecast query failed")
		return ForecastSnapshot{}, err
	}

	nearest, _ := NearestForecast(points, target)
	s.logger.Debug().
		Str("city", city).
		Time("target", target).
		Time("selected", nearest.Time).
		Msg("forecast point selected")

	return ForecastSnapshot{
		Description:  nearest.Description,
		TemperatureC: common.RoundHalfUp(nearest.TempC),
		Icon:         nearest.IconCode,
	}, nil
}

// NearestForecast returns the point whose time is closest to target. Points
// are scanned in order and a later point only replaces the current leader
// when it is strictly closer, so the earliest of equally close points wins.
func NearestForecast(points []ForecastPoint, target time.Time) (ForecastPoint, bool) {
	if len(points) == 0 {
		return ForecastPoint{}, false
	}
	best := points[0]
	bestDiff := absDuration(best.Time.Sub(target))
	for _, p := range points[1:] {
		if d := absDuration(p.Time.Sub(target)); d < bestDiff {
			best, bestDiff = p, d
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
