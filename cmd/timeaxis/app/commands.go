package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/timeaxis/cmd/timeaxis/cmd/check"
	"github.com/agentstation/timeaxis/cmd/timeaxis/cmd/deoverlap"
	"github.com/agentstation/timeaxis/cmd/timeaxis/cmd/overlaps"
	"github.com/agentstation/timeaxis/cmd/timeaxis/cmd/units"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(check.NewCommand(a))
	rootCmd.AddCommand(deoverlap.NewCommand(a))

	// Diagnostic commands
	rootCmd.AddCommand(overlaps.NewCommand(a))
	rootCmd.AddCommand(units.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "timeaxis %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", a.commit)
				fmt.Fprintf(w, "  built:    %s\n", a.date)
				fmt.Fprintf(w, "  built by: %s\n", a.builtBy)
				fmt.Fprintf(w, "  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
