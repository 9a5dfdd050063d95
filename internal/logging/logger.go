// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	Level string
	// File receives the log when set. The terminal dashboard owns stderr,
	// so it always logs to a file.
	File string
	// Console selects the human readable writer for stderr output.
	Console bool
}

// New returns the logger and a close function for the underlying file.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	if opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var (
		out     io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn = f, f.Close
	case opts.Console:
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closeFn, nil
}
