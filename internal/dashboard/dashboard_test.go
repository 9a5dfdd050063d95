package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/calendar"
	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/theme"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type stubProvider struct {
	mu     sync.Mutex
	byCity map[string]weather.CurrentConditions
	gates  map[string]chan struct{}
	calls  []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Current(ctx context.Context, city string) (weather.CurrentConditions, error) {
	p.mu.Lock()
	p.calls = append(p.calls, city)
	gate := p.gates[city]
	c, ok := p.byCity[city]
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return weather.CurrentConditions{}, &weather.TransportError{Err: ctx.Err()}
		}
	}
	if !ok {
		return weather.CurrentConditions{}, &weather.QueryError{Status: 404, Message: "city not found"}
	}
	return c, nil
}

func (p *stubProvider) Forecast(context.Context, string) ([]weather.ForecastPoint, error) {
	return nil, nil
}

var london = weather.CurrentConditions{
	PlaceName:   "London",
	Coordinates: weather.Coordinates{51.5085, -0.1257},
	TempC:       12.3,
	Humidity:    60,
	WindSpeedMS: 5,
	Condition:   "Clear",
	IconCode:    "01d",
}

var paris = weather.CurrentConditions{
	PlaceName:   "Paris",
	Coordinates: weather.Coordinates{48.85, 2.35},
	TempC:       18.9,
	Humidity:    40,
	WindSpeedMS: 2,
	Condition:   "Clouds",
	IconCode:    "03d",
}

type fixture struct {
	dash     *Dashboard
	store    *store.MemoryStore
	provider *stubProvider
}

func newFixture(t *testing.T, s *store.MemoryStore, defaultCity string) fixture {
	t.Helper()
	if s == nil {
		s = store.NewMemoryStore()
	}
	p := &stubProvider{
		byCity: map[string]weather.CurrentConditions{"London": london, "Paris": paris},
		gates:  map[string]chan struct{}{},
	}
	now := func() time.Time { return fixedNow }
	ids := common.NewIDSource(now)
	svc := weather.NewService(p, weather.WithClock(now), weather.WithIDSource(ids))
	th, err := theme.NewManager(s, nil, nil, zerolog.Nop())
	require.NoError(t, err)

	d := New(Config{
		Store:       s,
		Weather:     svc,
		Locations:   location.NewManager(s, 0, zerolog.Nop()),
		Calendar:    calendar.NewManager(s, svc, calendar.WithClock(now), calendar.WithIDSource(ids)),
		Theme:       th,
		DefaultCity: defaultCity,
		Logger:      zerolog.Nop(),
	})
	t.Cleanup(d.Close)
	return fixture{dash: d, store: s, provider: p}
}

func TestSearchLondonThenSelectFromHistory(t *testing.T) {
	f := newFixture(t, nil, "")
	ctx := context.Background()
	require.NoError(t, f.dash.Start(ctx))

	r, err := f.dash.Search(ctx, "London")
	require.NoError(t, err)
	assert.Equal(t, 12, r.TemperatureC)
	assert.Equal(t, 18, r.WindSpeedKph)
	assert.Equal(t, 60, r.HumidityPercent)

	state := f.dash.SearchState()
	assert.Equal(t, StatusSuccess, state.Status)
	require.NotNil(t, state.Reading)
	assert.Equal(t, r, *state.Reading)

	history := f.dash.Locations().History()
	require.Len(t, history, 1)
	assert.Equal(t, r.ID, history[0].ID)

	selected, ok, err := f.dash.SelectFromHistory(r.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, r, selected)
	assert.Equal(t, ViewLocations, f.dash.Router().Active())
}

func TestSelectFromHistoryUnknownIDKeepsView(t *testing.T) {
	f := newFixture(t, nil, "")
	require.NoError(t, f.dash.Start(context.Background()))

	_, ok, err := f.dash.SelectFromHistory(42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ViewWeather, f.dash.Router().Active())
}

func TestSearchRejectsBlankCityWithoutStateChange(t *testing.T) {
	f := newFixture(t, nil, "")
	ctx := context.Background()
	require.NoError(t, f.dash.Start(ctx))
	_, err := f.dash.Search(ctx, "Paris")
	require.NoError(t, err)
	before := f.dash.SearchState()

	_, err = f.dash.Search(ctx, "   ")
	require.Error(t, err)
	assert.True(t, weather.IsValidation(err))
	assert.Equal(t, weather.MsgCityRequired, weather.UserMessage(err))
	assert.Equal(t, before, f.dash.SearchState())
	assert.Equal(t, []string{"Paris"}, f.provider.calls)
}

func TestSearchFailureClearsDisplayedReading(t *testing.T) {
	f := newFixture(t, nil, "")
	ctx := context.Background()
	require.NoError(t, f.dash.Start(ctx))
	_, err := f.dash.Search(ctx, "London")
	require.NoError(t, err)

	_, err = f.dash.Search(ctx, "Atlantis")
	require.Error(t, err)

	state := f.dash.SearchState()
	assert.Equal(t, StatusError, state.Status)
	assert.Nil(t, state.Reading)
	assert.Equal(t, weather.MsgCityNotFound, state.Message)
	assert.Len(t, f.dash.Locations().History(), 1)
}

func TestLatestSearchWins(t *testing.T) {
	f := newFixture(t, nil, "")
	ctx := context.Background()
	require.NoError(t, f.dash.Start(ctx))

	gate := make(chan struct{})
	f.provider.gates["London"] = gate

	first, err := f.dash.BeginSearch("London")
	require.NoError(t, err)
	second, err := f.dash.BeginSearch("Paris")
	require.NoError(t, err)

	slow := make(chan error, 1)
	go func() {
		_, err := f.dash.FinishSearch(ctx, first)
		slow <- err
	}()

	r, err := f.dash.FinishSearch(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "Paris", r.PlaceName)

	close(gate)
	require.ErrorIs(t, <-slow, ErrSuperseded)

	state := f.dash.SearchState()
	assert.Equal(t, StatusSuccess, state.Status)
	require.NotNil(t, state.Reading)
	assert.Equal(t, "Paris", state.Reading.PlaceName)

	history := f.dash.Locations().History()
	require.Len(t, history, 1)
	assert.Equal(t, "Paris", history[0].PlaceName)
}

func TestBeginSearchMarksLoading(t *testing.T) {
	f := newFixture(t, nil, "")
	require.NoError(t, f.dash.Start(context.Background()))

	ticket, err := f.dash.BeginSearch("London")
	require.NoError(t, err)
	assert.Equal(t, "London", ticket.City())

	state := f.dash.SearchState()
	assert.Equal(t, StatusLoading, state.Status)
	assert.Equal(t, "London", state.City)
}

func TestStartSearchesDefaultCityWhenNothingSaved(t *testing.T) {
	f := newFixture(t, nil, "London")
	require.NoError(t, f.dash.Start(context.Background()))

	assert.Equal(t, []string{"London"}, f.provider.calls)
	current, ok := f.dash.Locations().Current()
	require.True(t, ok)
	assert.Equal(t, "London", current.PlaceName)
	assert.Equal(t, StatusSuccess, f.dash.SearchState().Status)
}

func TestStartRestoresSavedLocation(t *testing.T) {
	s := store.NewMemoryStore()
	first := newFixture(t, s, "")
	require.NoError(t, first.dash.Start(context.Background()))
	saved, err := first.dash.Search(context.Background(), "Paris")
	require.NoError(t, err)
	first.dash.Close()

	second := newFixture(t, s, "London")
	require.NoError(t, second.dash.Start(context.Background()))

	assert.Empty(t, second.provider.calls)
	state := second.dash.SearchState()
	assert.Equal(t, StatusSuccess, state.Status)
	require.NotNil(t, state.Reading)
	assert.Equal(t, saved, *state.Reading)
	assert.Len(t, second.dash.Locations().History(), 1)
}

func TestStartDefaultCityFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, nil, "Atlantis")
	require.NoError(t, f.dash.Start(context.Background()))
	assert.Equal(t, StatusError, f.dash.SearchState().Status)
}

func TestCurrentLocationChangesFollowTheStore(t *testing.T) {
	f := newFixture(t, nil, "")
	ctx := context.Background()
	require.NoError(t, f.dash.Start(ctx))
	london, err := f.dash.Search(ctx, "London")
	require.NoError(t, err)
	_, err = f.dash.Search(ctx, "Paris")
	require.NoError(t, err)

	_, ok, err := f.dash.Locations().SelectFromHistory(london.ID)
	require.NoError(t, err)
	require.True(t, ok)

	state := f.dash.SearchState()
	require.NotNil(t, state.Reading)
	assert.Equal(t, "London", state.Reading.PlaceName)
}
