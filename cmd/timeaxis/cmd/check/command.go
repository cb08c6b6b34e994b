// Package check provides the validate mode of the CLI: a continuity check
// of one dataset directory.
package check

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/timeaxis"
	"github.com/agentstation/timeaxis/cmd/application"
	"github.com/agentstation/timeaxis/internal/cmd/output"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/report"
)

// NewCommand creates the check command.
func NewCommand(app application.Application) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:     "check DIR",
		GroupID: "core",
		Short:   "Check that a dataset directory forms one continuous time axis",
		Long: `Check walks every time step of every file in DIR, in date stamp order,
and reports each step whose delta differs from the dataset frequency, both
inside a file and across file boundaries.

The last line is always Result=Pass or Result=Fail followed by the dataset
directory. The command exits 1 when the check fails.`,
		Example: `  timeaxis check /data/tas/day
  timeaxis check /data/tas/mon --jobs 12 --quiet
  timeaxis check /data/tas/day -o json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []timeaxis.Option
			if cmd.Flags().Changed("jobs") {
				opts = append(opts, timeaxis.WithJobs(jobs))
			}
			engine, err := app.Engine(opts...)
			if err != nil {
				return err
			}

			rep, err := engine.Validate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := printReport(cmd, app, rep); err != nil {
				return err
			}
			if !rep.Passed() {
				return errors.ErrCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel workers (default from config)")

	return cmd
}

func printReport(cmd *cobra.Command, app application.Application, rep *report.Report) error {
	w := cmd.OutOrStdout()
	format := output.Format(strings.ToLower(app.OutputFormat()))

	switch format {
	case output.FormatText, "":
		return rep.WriteText(w, app.Settings().Quiet)
	case output.FormatTable:
		if len(rep.Issues) > 0 && !app.Settings().Quiet {
			if err := output.NewFormatter(output.FormatTable).Format(w, output.IssuesToTableData(rep.Issues)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, rep.ResultLine())
		return err
	default:
		return output.NewFormatter(format).Format(w, rep)
	}
}
