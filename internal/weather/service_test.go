package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/common"
)

type fakeProvider struct {
	current      CurrentConditions
	currentErr   error
	forecast     []ForecastPoint
	forecastErr  error
	currentCalls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Current(_ context.Context, _ string) (CurrentConditions, error) {
	f.currentCalls++
	return f.current, f.currentErr
}

func (f *fakeProvider) Forecast(_ context.Context, _ string) ([]ForecastPoint, error) {
	return f.forecast, f.forecastErr
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(p Provider) *Service {
	now := func() time.Time { return fixedNow }
	return NewService(p, WithClock(now), WithIDSource(common.NewIDSource(now)))
}

func TestFetchCurrentNormalizesLondon(t *testing.T) {
	p := &fakeProvider{current: CurrentConditions{
		PlaceName:   "london",
		Coordinates: Coordinates{51.5085, -0.1257},
		TempC:       12.3,
		Humidity:    60,
		WindSpeedMS: 5,
		Condition:   "Clear",
		IconCode:    "01d",
	}}
	svc := newTestService(p)

	r, err := svc.FetchCurrent(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, "london", r.PlaceName)
	assert.Equal(t, "London", r.DisplayName)
	assert.Equal(t, 12, r.TemperatureC)
	assert.Equal(t, 18, r.WindSpeedKph)
	assert.Equal(t, 60, r.HumidityPercent)
	assert.Equal(t, IconClear, r.Icon)
	assert.Equal(t, "Clear", r.Condition)
	assert.Equal(t, fixedNow, r.CapturedAt)
	assert.Equal(t, fixedNow.UnixMilli(), r.ID)
}

func TestFetchCurrentConversions(t *testing.T) {
	cases := []struct {
		temp, wind     float64
		wantT, wantKph int
	}{
		{temp: 12.9, wind: 5, wantT: 12, wantKph: 18},
		{temp: -0.5, wind: 0, wantT: -1, wantKph: 0},
		{temp: 30.0, wind: 2.5, wantT: 30, wantKph: 9},   // 9.0
		{temp: 7.99, wind: 1.25, wantT: 7, wantKph: 5},   // 4.5 rounds up
		{temp: -3.2, wind: 10.4, wantT: -4, wantKph: 37}, // 37.44
	}
	for _, tc := range cases {
		svc := newTestService(&fakeProvider{current: CurrentConditions{PlaceName: "x", TempC: tc.temp, WindSpeedMS: tc.wind}})
		r, err := svc.FetchCurrent(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, tc.wantT, r.TemperatureC, "temp %v", tc.temp)
		assert.Equal(t, tc.wantKph, r.WindSpeedKph, "wind %v", tc.wind)
	}
}

func TestFetchCurrentUnknownIconFallsBackToClear(t *testing.T) {
	svc := newTestService(&fakeProvider{current: CurrentConditions{PlaceName: "Reykjavik", IconCode: "50d"}})
	r, err := svc.FetchCurrent(context.Background(), "Reykjavik")
	require.NoError(t, err)
	assert.Equal(t, IconClear, r.Icon)
}

func TestFetchCurrentCustomIconTable(t *testing.T) {
	table := IconTable{Icons: map[string]Icon{"50d": "mist"}, Default: "unknown"}
	svc := NewService(&fakeProvider{current: CurrentConditions{IconCode: "50d"}}, WithIconTable(table))
	r, err := svc.FetchCurrent(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, Icon("mist"), r.Icon)
}

func TestFetchCurrentRejectsBlankCityWithoutRequest(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	for _, city := range []string{"", "   ", "\t\n"} {
		_, err := svc.FetchCurrent(context.Background(), city)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, MsgCityRequired, UserMessage(err))
	}
	assert.Zero(t, p.currentCalls)
}

func TestFetchCurrentPropagatesProviderFailures(t *testing.T) {
	svc := newTestService(&fakeProvider{currentErr: &QueryError{Status: 404, Message: "city not found"}})
	_, err := svc.FetchCurrent(context.Background(), "Atlantis")
	assert.Equal(t, "query_failure", Outcome(err))
	assert.Equal(t, "city not found", UserMessage(err))

	svc = newTestService(&fakeProvider{currentErr: &TransportError{Err: errors.New("dial tcp: refused")}})
	_, err = svc.FetchCurrent(context.Background(), "London")
	assert.Equal(t, "transport_failure", Outcome(err))
	assert.Equal(t, MsgFetchFailed, UserMessage(err))
}

func TestNearestForecast(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	points := []ForecastPoint{
		{Time: base, Description: "a"},
		{Time: base.Add(3 * time.Hour), Description: "b"},
		{Time: base.Add(6 * time.Hour), Description: "c"},
		{Time: base.Add(9 * time.Hour), Description: "d"},
	}

	got, ok := NearestForecast(points, base.Add(4*time.Hour))
	require.True(t, ok)
	assert.Equal(t, "b", got.Description)

	got, _ = NearestForecast(points, base.Add(100*time.Hour))
	assert.Equal(t, "d", got.Description)

	got, _ = NearestForecast(points, base.Add(-time.Hour))
	assert.Equal(t, "a", got.Description)
}

func TestNearestForecastTieKeepsEarlierLeader(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	points := []ForecastPoint{
		{Time: base.Add(-90 * time.Minute), Description: "earlier"},
		{Time: base.Add(90 * time.Minute), Description: "later"},
	}
	got, _ := NearestForecast(points, base)
	assert.Equal(t, "earlier", got.Description)
}

func TestNearestForecastEmpty(t *testing.T) {
	_, ok := NearestForecast(nil, time.Now())
	assert.False(t, ok)
}

func TestFetchForecastNear(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeProvider{forecast: []ForecastPoint{
		{Time: base.Add(-3 * time.Hour), TempC: 9.5, Description: "clear sky", IconCode: "01d"},
		{Time: base.Add(time.Hour), TempC: 14.5, Description: "light rain", IconCode: "10d"},
	}})

	snap, err := svc.FetchForecastNear(context.Background(), "London", base)
	require.NoError(t, err)
	assert.Equal(t, ForecastSnapshot{Description: "light rain", TemperatureC: 15, Icon: "10d"}, snap)
	assert.Equal(t, "https://openweathermap.org/img/wn/10d.png", snap.IconURL())
}

func TestFetchForecastNearEmptySeries(t *testing.T) {
	svc := newTestService(&fakeProvider{})
	_, err := svc.FetchForecastNear(context.Background(), "London", time.Now())
	assert.Equal(t, "query_failure", Outcome(err))
}

func TestFetchForecastNearBlankCity(t *testing.T) {
	svc := newTestService(&fakeProvider{})
	_, err := svc.FetchForecastNear(context.Background(), " ", time.Now())
	assert.True(t, IsValidation(err))
}
