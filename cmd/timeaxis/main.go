// Package main provides the entry point for the timeaxis CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/timeaxis/cmd/timeaxis/app"
	"github.com/agentstation/timeaxis/pkg/logging"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	// LOG_* variables apply while the config is loaded, before flags are parsed
	logging.ConfigureFromEnv()

	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := app.ContextWithSignals(context.Background())

	err = application.Execute(ctx, os.Args[1:])
	cancel()
	app.ExitOnError(err)
}
