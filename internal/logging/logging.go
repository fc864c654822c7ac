// Package logging manages the recorder's slog-based logging: a fan-out
// handler over console, file and optional GELF/OTel outputs.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Manager owns the configured logger and any providers that need
// flushing at shutdown.
type Manager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider
}

// NewManager creates an unconfigured logging manager. Setup must be
// called before Logger returns anything but the default logger.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options configures Setup.
type Options struct {
	File        io.Writer // log file, may be nil
	Level       string
	Provider    *sdklog.LoggerProvider // OTel log provider, may be nil
	GelfAddress string                 // Graylog UDP address, empty to disable
}

// Setup initializes the logging system. Console output is always on;
// file, OTel and GELF outputs are added when configured.
func (m *Manager) Setup(opts Options) error {
	m.logProvider = opts.Provider

	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if ts, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(ts.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stdout, handlerOpts),
	}

	if opts.File != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.File, handlerOpts))
	}

	if opts.Provider != nil {
		handlers = append(handlers, otelslog.NewHandler("recorder",
			otelslog.WithLoggerProvider(opts.Provider)))
	}

	if opts.GelfAddress != "" {
		gw, err := gelf.NewWriter(opts.GelfAddress)
		if err != nil {
			return fmt.Errorf("error creating GELF writer: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(gw, handlerOpts))
	}

	m.logger = slog.New(NewFanoutHandler(handlers...))
	m.logger.Info("Logging initialized", "level", opts.Level)
	return nil
}

// Logger returns the configured logger, or the process default before
// Setup has run.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if a provider was configured.
func (m *Manager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
