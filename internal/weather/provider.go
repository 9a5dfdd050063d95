package weather

import (
	"context"
	"time"
)

// CurrentConditions is a provider's raw answer for the current weather,
// before normalization into a Reading.
type CurrentConditions struct {
	PlaceName   string
	Coordinates Coordinates
	TempC       float64
	Humidity    int
	WindSpeedMS float64
	Condition   string // e.g. "Clouds"
	IconCode    string // e.g. "04d"
}

// ForecastPoint is one entry of a provider forecast series.
type ForecastPoint struct {
	Time        time.Time
	TempC       float64
	Description string // e.g. "light rain"
	IconCode    string
}

// Provider abstracts the weather data source (OpenWeatherMap).
// Implementations return *QueryError when the provider answers with a
// non-success status and *TransportError when no usable answer arrives.
type Provider interface {
	Name() string
	Current(ctx context.Context, city string) (CurrentConditions, error)
	Forecast(ctx context.Context, city string) ([]ForecastPoint, error)
}
