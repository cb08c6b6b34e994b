package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis"
	"github.com/agentstation/timeaxis/pkg/constants"
)

// Mock is an Application for command tests. Nil funcs fall back to
// defaults: an engine from timeaxis.New, a no-op logger and the default
// job count.
type Mock struct {
	EngineFunc   func(opts ...timeaxis.Option) (timeaxis.Engine, error)
	LoggerFunc   func() *zerolog.Logger
	Format       string
	SettingsFunc func() Settings
}

var _ Application = (*Mock)(nil)

// Engine implements Application.
func (m *Mock) Engine(opts ...timeaxis.Option) (timeaxis.Engine, error) {
	if m.EngineFunc != nil {
		return m.EngineFunc(opts...)
	}
	return timeaxis.New(opts...)
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	return m.Format
}

// Settings implements Application.
func (m *Mock) Settings() Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return Settings{Jobs: constants.DefaultJobs}
}

// Version implements Application.
func (m *Mock) Version() string { return "test" }

// Commit implements Application.
func (m *Mock) Commit() string { return "none" }

// Date implements Application.
func (m *Mock) Date() string { return "unknown" }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return "test" }
