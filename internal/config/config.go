package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MemoryStorePath selects the ephemeral in-memory store.
const MemoryStorePath = ":memory:"

type AppConfig struct {
	OpenWeatherAPIKey  string        `mapstructure:"openweather_api_key"`
	OpenWeatherBaseURL string        `mapstructure:"openweather_base_url" validate:"required,url"`
	HTTPTimeout        time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
	ProviderMaxRetries int           `mapstructure:"provider_max_retries" validate:"gte=0,lte=10"`

	// StorePath is the SQLite file, or MemoryStorePath.
	StorePath    string `mapstructure:"store_path" validate:"required"`
	HistoryLimit int    `mapstructure:"history_limit" validate:"gte=0"` // 0 = unlimited

	// DefaultCity is searched on start when no current location was saved.
	DefaultCity string `mapstructure:"default_city"`
	// TimeZone interprets event dates and times. Empty means the local zone.
	TimeZone string `mapstructure:"timezone"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	LogFile  string `mapstructure:"log_file"`

	Port string `mapstructure:"port" validate:"required,numeric"`

	// DigestInterval controls the upcoming-event digest. 0 disables it.
	DigestInterval time.Duration `mapstructure:"digest_interval" validate:"gte=0"`
	DigestWindow   time.Duration `mapstructure:"digest_window" validate:"gt=0"`
}

var defaults = map[string]any{
	"openweather_api_key":  "",
	"openweather_base_url": "https://api.openweathermap.org/data/2.5",
	"http_timeout":         "10s",
	"provider_max_retries": 0,
	"store_path":           "weather-dashboard.db",
	"history_limit":        0,
	"default_city":         "New York",
	"timezone":             "",
	"log_level":            "info",
	"log_file":             "weather-dashboard.log",
	"port":                 "8080",
	"digest_interval":      "0s",
	"digest_window":        "24h",
}

// Load reads configuration from a .env file (optional), the environment and
// an optional YAML file, in increasing order of precedence: file values are
// overridden by the environment.
func Load(configFile string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves TimeZone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return loc, nil
}

// InMemory reports whether the ephemeral store was requested.
func (c *AppConfig) InMemory() bool {
	return c.StorePath == MemoryStorePath
}
