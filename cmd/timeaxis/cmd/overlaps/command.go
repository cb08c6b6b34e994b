// Package overlaps provides a dry run of the repair mode: it lists what
// deoverlap would truncate without writing anything.
package overlaps

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/timeaxis"
	"github.com/agentstation/timeaxis/cmd/application"
	"github.com/agentstation/timeaxis/internal/cmd/emoji"
	"github.com/agentstation/timeaxis/internal/cmd/output"
)

// NewCommand creates the overlaps command.
func NewCommand(app application.Application) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:     "overlaps DIR",
		GroupID: "diagnostics",
		Short:   "List adjacent files whose time bounds do not meet",
		Long: `Overlaps compares the last time bound of every file with the first bound
of the next one and lists the pairs that overlap or leave a gap, together
with the production streams found and the segments deoverlap would cut.`,
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

			rep, err := engine.Overlaps(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if output.IsStructured(format) {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), rep)
			}
			return printTables(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel workers (default from config)")

	return cmd
}

func printTables(w io.Writer, rep *timeaxis.OverlapReport) error {
	table := output.NewFormatter(output.FormatTable)

	fmt.Fprintf(w, "%s %d files in %d stream(s)\n", emoji.Info, rep.Files, len(rep.Streams))
	if err := table.Format(w, output.StreamsToTableData(rep.Streams)); err != nil {
		return err
	}

	if len(rep.Records) == 0 {
		fmt.Fprintf(w, "%s no misaligned files\n", emoji.Success)
	} else {
		fmt.Fprintf(w, "\n%s %d misaligned pair(s)\n", emoji.Warning, len(rep.Records))
		if err := table.Format(w, output.RecordsToTableData(rep.Records)); err != nil {
			return err
		}
	}

	if len(rep.Segments) > 0 {
		fmt.Fprintf(w, "\n%s %d segment(s) to truncate\n", emoji.Info, len(rep.Segments))
		if err := table.Format(w, output.SegmentsToTableData(rep.Segments)); err != nil {
			return err
		}
	}

	for _, f := range rep.Failures {
		fmt.Fprintf(w, "%s %s / %s: %s\n", emoji.Error, f.Earlier, f.Later, f.Message)
	}
	return nil
}
