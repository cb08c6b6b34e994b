// Package application provides the application interface for timeaxis commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            engine, err := app.Engine()
//	            if err != nil {
//	                return err
//	            }
//	            rep, err := engine.Validate(cmd.Context(), args[0])
//	            // ... print rep
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    EngineFunc: func(opts ...timeaxis.Option) (timeaxis.Engine, error) {
//	        return timeaxis.New(append(opts, timeaxis.WithOpener(store))...)
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis"
)

// Settings are the configured defaults commands fall back to when a flag
// is not given on the command line.
type Settings struct {
	Jobs      int
	Copy      bool
	OutputDir string
	UnitsOut  string
	Quiet     bool
}

// Application provides the application interface that commands need.
// The App struct from cmd/timeaxis/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Engine returns the engine. When called without options it returns
	// the default cached instance built from configuration; options are
	// applied on top of the configured ones and yield a new instance.
	Engine(opts ...timeaxis.Option) (timeaxis.Engine, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (text, table, json, yaml).
	OutputFormat() string

	// Settings returns the configured command defaults.
	Settings() Settings

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
