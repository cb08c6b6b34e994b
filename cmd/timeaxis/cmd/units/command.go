// Package units provides the units side channel of the CLI.
package units

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/timeaxis"
	"github.com/agentstation/timeaxis/cmd/application"
	"github.com/agentstation/timeaxis/internal/cmd/output"
	"github.com/agentstation/timeaxis/pkg/units"
)

// NewCommand creates the units command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		jobs int
		out  string
	)

	cmd := &cobra.Command{
		Use:     "units DIR",
		GroupID: "diagnostics",
		Short:   "Find files whose time units disagree with the rest of the set",
		Long: `Units reads the units attribute of every time axis in DIR and finds the
units string most files share. For the first file that differs it writes one
line for a repair step:

  correct_units=<majority units>,offset=<reference date difference>

The line goes to the file named by --out or TIMEAXIS_UNITS_OUT, otherwise to
stdout. Nothing is written when every file agrees.`,
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

			res, err := engine.Units(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = app.Settings().UnitsOut
			}
			w := cmd.OutOrStdout()

			format := output.Format(strings.ToLower(app.OutputFormat()))
			switch {
			case output.IsStructured(format):
				if err := output.NewFormatter(format).Format(w, res); err != nil {
					return err
				}
				if res.Correction == nil || path == "" {
					return nil
				}
			case format == output.FormatTable:
				table := output.NewFormatter(output.FormatTable)
				if err := table.Format(w, output.UnitsToTableData(res)); err != nil {
					return err
				}
				if len(res.Mismatches) > 0 {
					if err := table.Format(w, res.Mismatches); err != nil {
						return err
					}
				}
			}

			if res.Correction == nil {
				app.Logger().Info().Str("units", res.Majority).Msg("Time units agree across all files")
				return nil
			}
			return units.Emit(*res.Correction, path, w)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel workers (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "file receiving the correction line (default $TIMEAXIS_UNITS_OUT or stdout)")

	return cmd
}
