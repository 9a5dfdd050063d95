package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider. An empty baseURL selects
// DefaultOpenWeatherBaseURL; a zero backoff selects no retries.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string, backoff BackoffConfig) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if backoff.InitialInterval <= 0 {
		backoff.InitialInterval = 500 * time.Millisecond
	}
	if backoff.MaxInterval <= 0 {
		backoff.MaxInterval = 5 * time.Second
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) request(endpoint, city string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("units", "metric")
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

func (p *OpenWeatherProvider) checkKey() error {
	if p.apiKey == "" {
		return &weather.QueryError{Status: http.StatusUnauthorized, Message: "openweather api key is not configured"}
	}
	return nil
}

// Current implements weather.Provider against GET /weather.
func (p *OpenWeatherProvider) Current(ctx context.Context, city string) (weather.CurrentConditions, error) {
	if err := p.checkKey(); err != nil {
		return weather.CurrentConditions{}, err
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("weather", city))
	if err != nil {
		return weather.CurrentConditions{}, err
	}

	var payload struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main string `json:"main"`
			Icon string `json:"icon"`
		} `json:"weather"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.CurrentConditions{}, err
	}
	if len(payload.Weather) == 0 {
		return weather.CurrentConditions{}, &weather.TransportError{Err: fmt.Errorf("response carries no weather entry")}
	}

	return weather.CurrentConditions{
		PlaceName:   payload.Name,
		Coordinates: weather.Coordinates{payload.Coord.Lat, payload.Coord.Lon},
		TempC:       payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		WindSpeedMS: payload.Wind.Speed,
		Condition:   payload.Weather[0].Main,
		IconCode:    payload.Weather[0].Icon,
	}, nil
}

// Forecast implements weather.Provider against GET /forecast.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, city string) ([]weather.ForecastPoint, error) {
	if err := p.checkKey(); err != nil {
		return nil, err
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("forecast", city))
	if err != nil {
		return nil, err
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return nil, err
	}

	points := make([]weather.ForecastPoint, 0, len(payload.List))
	for _, item := range payload.List {
		point := weather.ForecastPoint{
			Time:  time.Unix(item.Dt, 0).UTC(),
			TempC: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			point.Description = item.Weather[0].Description
			point.IconCode = item.Weather[0].Icon
		}
		points = append(points, point)
	}
	return points, nil
}
