package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/irgen/internal/config"
	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/emit"
	"github.com/vk/irgen/internal/engine"
	"github.com/vk/irgen/internal/metrics"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	settings *config.Settings
	engine   *engine.Engine
	metrics  *metrics.Metrics
}

// NewApp is the constructor for the main application. Documents written to
// stdout go to outW; logs go to logW. Each App owns its logger, settings and
// metrics registry, so several Apps never share state.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var configPaths []string
	if appConfig.ConfigPath != "" {
		configPaths = append(configPaths, appConfig.ConfigPath)
	}
	settings, err := loader.Load(ctx, configPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if appConfig.SchemaVersion != "" {
		settings.SchemaVersion = appConfig.SchemaVersion
	}
	if appConfig.Workers > 0 {
		settings.Workers = appConfig.Workers
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("Configuration loaded.", "schema_version", settings.SchemaVersion, "workers", settings.Workers)

	opts, err := engine.NewOptions(settings)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		settings: settings,
		engine:   engine.New(opts, newBinderFactory(settings)),
		metrics:  metrics.New(),
	}, nil
}

// newBinderFactory picks the document binder. With an XSD directory the
// serialised bytes are also checked by the external validator.
func newBinderFactory(s *config.Settings) func() emit.Binder {
	if s.XSDDir == "" {
		return func() emit.Binder { return emit.NewXMLBinder() }
	}
	dir := s.XSDDir
	return func() emit.Binder { return emit.NewLintBinder(emit.NewXMLBinder(), dir) }
}

// Settings returns the effective settings. This is primarily for testing.
func (a *App) Settings() *config.Settings {
	return a.settings
}

// Metrics returns the application's metrics. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
