// Package logger builds the zerolog logger used by the service.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-interceptor/internal/config"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New creates a logger writing to stdout.
func New(cfg config.LoggingConfig, service string) (zerolog.Logger, error) {
	return NewWithWriter(cfg, service, os.Stdout)
}

// NewWithWriter creates a logger writing to wrt. An empty level means info, an empty format means json.
func NewWithWriter(cfg config.LoggingConfig, service string, wrt io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel

	if cfg.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
	}

	switch strings.ToLower(cfg.Format) {
	case "", FormatJSON:
	case FormatConsole:
		wrt = zerolog.ConsoleWriter{Out: wrt, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), errors.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(wrt).Level(level).With().Timestamp().Str("service", service).Logger(), nil
}
