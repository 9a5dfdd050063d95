package weather

import (
	"time"
)

// Coordinates is a latitude/longitude pair. It serializes as a two-element
// array, [lat, lon].
type Coordinates [2]float64

// Lat returns the latitude.
func (c Coordinates) Lat() float64 { return c[0] }

// Lon returns the longitude.
func (c Coordinates) Lon() float64 { return c[1] }

// Icon is an opaque handle to a weather icon asset.
type Icon string

// Reading is the normalized view of the current conditions at a place.
// Readings are values: every field is set when the reading is created and
// never changed afterwards.
type Reading struct {
	PlaceName       string      `json:"name"`
	DisplayName     string      `json:"displayName"`
	Coordinates     Coordinates `json:"coordinates"`
	TemperatureC    int         `json:"temperature"` // floored
	Condition       string      `json:"weather"`
	HumidityPercent int         `json:"humidity"`
	WindSpeedKph    int         `json:"windSpeed"`
	Icon            Icon        `json:"icon"`
	CapturedAt      time.Time   `json:"timestamp"` // always UTC
	ID              int64       `json:"id"`
}

// ForecastSnapshot is the forecast selected for a point in time.
type ForecastSnapshot struct {
	Description  string `json:"description"`
	TemperatureC int    `json:"temp"`
	Icon         string `json:"icon"` // provider icon code, e.g. "10d"
}

// IconURL returns the provider-hosted image for the snapshot's icon code.
func (f ForecastSnapshot) IconURL() string {
	if f.Icon == "" {
		return ""
	}
	return "https://openweathermap.org/img/wn/" + f.Icon + ".png"
}

// IconTable maps provider icon codes to icon handles. Codes missing from
// Icons resolve to Default.
type IconTable struct {
	Icons   map[string]Icon
	Default Icon
}

// Lookup resolves an icon code.
func (t IconTable) Lookup(code string) Icon {
	if icon, ok := t.Icons[code]; ok {
		return icon
	}
	return t.Default
}

// Icon handles known to the dashboard.
const (
	IconClear   Icon = "clear"
	IconCloud   Icon = "cloud"
	IconDrizzle Icon = "drizzle"
	IconRain    Icon = "rain"
	IconSnow    Icon = "snow"
)

// DefaultIconTable is the OpenWeather icon code mapping used by the dashboard.
func DefaultIconTable() IconTable {
	return IconTable{
		Default: IconClear,
		Icons: map[string]Icon{
			"01d": IconClear,
			"01n": IconClear,
			"02d": IconCloud,
			"02n": IconCloud,
			"03d": IconCloud,
			"03n": IconCloud,
			"04d": IconDrizzle,
			"04n": IconDrizzle,
			"09d": IconRain,
			"09n": IconRain,
			"10d": IconRain,
			"10n": IconRain,
			"13d": IconSnow,
			"13n": IconSnow,
		},
	}
}
