// Package app provides the application context and dependency management
// for the timeaxis CLI. It centralizes configuration, logging and the
// engine instance that commands share.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis"
	"github.com/agentstation/timeaxis/cmd/application"
	"github.com/agentstation/timeaxis/pkg/errors"
)

// App represents the timeaxis application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Engine instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	engine timeaxis.Engine
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment
// that can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Settings returns the configured command defaults.
func (a *App) Settings() application.Settings {
	return application.Settings{
		Jobs:      a.config.Jobs,
		Copy:      a.config.Copy,
		OutputDir: a.config.OutputDir,
		UnitsOut:  a.config.UnitsOut,
		Quiet:     a.config.Quiet,
	}
}

// Engine returns the engine. Without options it returns the cached
// instance, creating it on first use; with options it returns a new
// engine built from the configuration plus opts.
func (a *App) Engine(opts ...timeaxis.Option) (timeaxis.Engine, error) {
	if len(opts) > 0 {
		e, err := timeaxis.New(append(a.engineOptions(), opts...)...)
		if err != nil {
			return nil, errors.NewConfigError("engine", "creating engine with custom options", err)
		}
		return e, nil
	}

	a.mu.RLock()
	if a.engine != nil {
		e := a.engine
		a.mu.RUnlock()
		return e, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.engine != nil {
		return a.engine, nil
	}

	e, err := timeaxis.New(a.engineOptions()...)
	if err != nil {
		return nil, errors.NewConfigError("engine", "creating engine", err)
	}
	a.engine = e
	return e, nil
}

// engineOptions constructs engine options from the app configuration.
func (a *App) engineOptions() []timeaxis.Option {
	opts := []timeaxis.Option{
		timeaxis.WithJobs(a.config.Jobs),
		timeaxis.WithCopy(a.config.Copy),
		timeaxis.WithLogger(a.logger),
	}
	if a.config.TruncSuffix != "" {
		opts = append(opts, timeaxis.WithTruncSuffix(a.config.TruncSuffix))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithEngine sets a custom engine instance (useful for testing).
func WithEngine(e timeaxis.Engine) Option {
	return func(a *App) error {
		a.engine = e
		return nil
	}
}
