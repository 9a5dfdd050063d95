package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const londonCurrent = `{
	"coord": {"lon": -0.1257, "lat": 51.5085},
	"weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}],
	"main": {"temp": 12.3, "humidity": 60},
	"wind": {"speed": 5},
	"name": "London",
	"cod": 200
}`

const londonForecast = `{
	"cod": "200",
	"list": [
		{"dt": 1700000000, "main": {"temp": 10.4}, "weather": [{"description": "light rain", "icon": "10d"}]},
		{"dt": 1700010800, "main": {"temp": 11.6}, "weather": [{"description": "overcast clouds", "icon": "04d"}]}
	]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc, backoff BackoffConfig) *OpenWeatherProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenWeatherProvider(srv.Client(), "test-key", srv.URL, backoff)
}

func TestOpenWeatherCurrent(t *testing.T) {
	var gotQuery string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(londonCurrent))
	}, BackoffConfig{})

	cond, err := p.Current(context.Background(), "London")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "q=London")
	assert.Contains(t, gotQuery, "units=metric")
	assert.Contains(t, gotQuery, "appid=test-key")

	assert.Equal(t, "London", cond.PlaceName)
	assert.Equal(t, weather.Coordinates{51.5085, -0.1257}, cond.Coordinates)
	assert.Equal(t, 12.3, cond.TempC)
	assert.Equal(t, 60, cond.Humidity)
	assert.Equal(t, 5.0, cond.WindSpeedMS)
	assert.Equal(t, "Clear", cond.Condition)
	assert.Equal(t, "01d", cond.IconCode)
}

func TestOpenWeatherCurrentNotFoundCarriesProviderMessage(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}, BackoffConfig{})

	_, err := p.Current(context.Background(), "Atlantis")

	var qe *weather.QueryError
	require.True(t, errors.As(err, &qe), "got %T: %v", err, err)
	assert.Equal(t, http.StatusNotFound, qe.Status)
	assert.Equal(t, "city not found", qe.UserMessage())
}

func TestOpenWeatherCurrentErrorWithoutMessageFallsBack(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}, BackoffConfig{})

	_, err := p.Current(context.Background(), "x")

	var qe *weather.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, weather.MsgCityNotFound, qe.UserMessage())
}

func TestOpenWeatherMalformedBodyIsTransportFailure(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}, BackoffConfig{})

	_, err := p.Current(context.Background(), "London")

	var te *weather.TransportError
	require.True(t, errors.As(err, &te), "got %T: %v", err, err)
	assert.Equal(t, weather.MsgFetchFailed, te.UserMessage())
}

func TestOpenWeatherUnreachableIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewOpenWeatherProvider(&http.Client{Timeout: time.Second}, "k", url, BackoffConfig{})
	_, err := p.Current(context.Background(), "London")

	var te *weather.TransportError
	assert.True(t, errors.As(err, &te), "got %T: %v", err, err)
}

func TestOpenWeatherNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, BackoffConfig{})

	_, err := p.Current(context.Background(), "London")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenWeatherRetriesServerErrorsWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(londonCurrent))
	}, BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond})

	cond, err := p.Current(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "London", cond.PlaceName)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenWeatherDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond})

	_, err := p.Current(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenWeatherMissingKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "", "http://127.0.0.1:1", BackoffConfig{})
	_, err := p.Current(context.Background(), "London")

	var qe *weather.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, http.StatusUnauthorized, qe.Status)
}

func TestOpenWeatherForecast(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		_, _ = w.Write([]byte(londonForecast))
	}, BackoffConfig{})

	points, err := p.Forecast(context.Background(), "London")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, time.Unix(1700000000, 0).UTC(), points[0].Time)
	assert.Equal(t, 10.4, points[0].TempC)
	assert.Equal(t, "light rain", points[0].Description)
	assert.Equal(t, "10d", points[0].IconCode)
	assert.Equal(t, "overcast clouds", points[1].Description)
}
