package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/calendar"
	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/theme"
	"github.com/i474232898/weather-dashboard/internal/tui"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "weather-dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("weather-dashboard", pflag.ContinueOnError)
	serve := flags.Bool("serve", false, "serve the HTTP API instead of the terminal dashboard")
	configFile := flags.StringP("config", "c", "", "optional YAML configuration file")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal dashboard owns stdout and stderr, so it logs to a file.
	logOpts := logging.Options{Level: cfg.LogLevel, Console: true}
	if !*serve {
		logOpts.File = cfg.LogFile
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer closeLog()

	m := metrics.New()

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	st = store.WithMetrics(st, m)

	tz, err := cfg.Location()
	if err != nil {
		return err
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL,
		providers.BackoffConfig{MaxRetries: cfg.ProviderMaxRetries})
	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn().Msg("OPENWEATHER_API_KEY is not set; searches will fail")
	}

	ids := common.NewIDSource(time.Now)
	svc := weather.NewService(provider,
		weather.WithIDSource(ids),
		weather.WithLogger(logger),
		weather.WithMetrics(m),
	)

	var detect func() bool
	if !*serve {
		detect = theme.DetectEnvironment
	}
	themes, err := theme.NewManager(st, detect, nil, logger)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}

	events := calendar.NewManager(st, svc,
		calendar.WithIDSource(ids),
		calendar.WithTimeZone(tz),
		calendar.WithLogger(logger),
	)
	dash := dashboard.New(dashboard.Config{
		Store:       st,
		Weather:     svc,
		Locations:   location.NewManager(st, cfg.HistoryLimit, logger),
		Calendar:    events,
		Theme:       themes,
		DefaultCity: cfg.DefaultCity,
		Logger:      logger,
		Metrics:     m,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dash.Start(ctx); err != nil {
		return fmt.Errorf("failed to restore dashboard: %w", err)
	}
	defer dash.Close()

	sched := scheduler.New(events, cfg.DigestInterval, cfg.DigestWindow, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	if *serve {
		return serveAPI(ctx, dash, m, cfg.Port, logger)
	}
	return runTUI(ctx, dash)
}

func openStore(cfg *config.AppConfig, logger zerolog.Logger) (store.Store, func(), error) {
	if cfg.InMemory() {
		logger.Info().Msg("using in-memory store; nothing will be persisted")
		return store.NewMemoryStore(), func() {}, nil
	}
	s, err := store.NewSQLite(cfg.StorePath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, func() {
		if err := s.Close(); err != nil {
			logger.Error().Err(err).Msg("closing store failed")
		}
	}, nil
}

func serveAPI(ctx context.Context, dash *dashboard.Dashboard, m *metrics.Metrics, port string, logger zerolog.Logger) error {
	app := httpapi.NewApp(dash, m, logger)

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("port", port).Msg("listening")
		errc <- app.Listen(":" + port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	return nil
}

func runTUI(ctx context.Context, dash *dashboard.Dashboard) error {
	program := tea.NewProgram(tui.NewModel(ctx, dash), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
