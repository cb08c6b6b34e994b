// Package deoverlap provides the repair mode of the CLI.
package deoverlap

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/timeaxis"
	"github.com/agentstation/timeaxis/cmd/application"
	"github.com/agentstation/timeaxis/internal/cmd/emoji"
	"github.com/agentstation/timeaxis/internal/cmd/output"
	"github.com/agentstation/timeaxis/pkg/deoverlap"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/overlap"
)

// Flags holds the deoverlap command flags.
type Flags struct {
	Output string
	Jobs   int
	Copy   bool
	Strict bool
}

// NewCommand creates the deoverlap command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "deoverlap DIR",
		GroupID: "core",
		Short:   "Write a reconciled copy of a directory with overlapping streams",
		Long: `Deoverlap finds adjacent files whose time bounds overlap, which happens
when a rerun starts a new production stream before the old one ended. Each
overlapped file is truncated where the next stream begins and written to the
output directory with a .trunc marker in its name. Every other file is linked
into the output directory, or copied with --copy.

Running deoverlap again with the same output directory writes the same file
set. Files that could not be written are listed; the command still exits 0
unless --strict is given.`,
		Example: `  timeaxis deoverlap /data/tas/day --output /scratch/tas/day
  timeaxis deoverlap /data/tas/day --output /scratch/tas/day --copy --jobs 12`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.Output, "output", "", "output directory (required unless output_dir is configured)")
	cmd.Flags().IntVarP(&flags.Jobs, "jobs", "j", 0, "number of parallel workers (default from config)")
	cmd.Flags().BoolVar(&flags.Copy, "copy", false, "copy unchanged files instead of symlinking them")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "exit non-zero when any file could not be written")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags, dir string) error {
	settings := app.Settings()

	out := flags.Output
	if out == "" {
		out = settings.OutputDir
	}
	if out == "" {
		return errors.NewValidationError("output", out, "an output directory is required (--output)")
	}
	jobs := settings.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs = flags.Jobs
	}
	copyFiles := settings.Copy || flags.Copy

	engine, err := app.Engine(timeaxis.WithJobs(jobs), timeaxis.WithCopy(copyFiles))
	if err != nil {
		return err
	}

	progress := cmd.ErrOrStderr()
	if settings.Quiet {
		progress = io.Discard
	}
	engine.OnSegment(func(i int, s overlap.Segment) {
		fmt.Fprintf(progress, "%s segment %d: %s, %d cut(s)\n", emoji.Info, i+1, chain(s), len(s.Records))
	})
	engine.OnTruncated(func(t deoverlap.Truncation) {
		fmt.Fprintf(progress, "%s %s -> %s (kept %d steps)\n", emoji.Success, t.Source, t.Output, t.Keep)
	})

	rep, err := engine.Repair(cmd.Context(), dir, out)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	if output.IsStructured(format) {
		if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), rep); err != nil {
			return err
		}
	} else if err := printSummary(cmd.OutOrStdout(), rep); err != nil {
		return err
	}

	if flags.Strict && (!rep.Result.OK() || len(rep.Remaining) > 0) {
		return fmt.Errorf("deoverlap of %s: %d file(s) failed, %d overlap(s) remain", dir, len(rep.Result.Failures), len(rep.Remaining))
	}
	return nil
}

func printSummary(w io.Writer, rep *timeaxis.RepairReport) error {
	res := rep.Result
	if len(res.Truncated) > 0 {
		if err := output.NewFormatter(output.FormatTable).Format(w, output.TruncationsToTableData(res.Truncated)); err != nil {
			return err
		}
	}
	for _, name := range res.Superseded {
		fmt.Fprintf(w, "%s %s superseded by a later stream, left out\n", emoji.Optional, name)
	}
	for _, name := range res.Unmatched {
		fmt.Fprintf(w, "%s %s has no step ending where the next stream begins, passed through\n", emoji.Warning, name)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(w, "%s %s\n", emoji.Error, f.Error())
	}
	for _, r := range rep.Remaining {
		fmt.Fprintf(w, "%s %s still overlaps %s\n", emoji.Warning, r.Earlier.Name, r.Later.Name)
	}

	symbol := emoji.Success
	if !res.OK() {
		symbol = emoji.Error
	}
	_, err := fmt.Fprintf(w, "%s %d truncated, %d %s, %d superseded, %d failed: %s\n",
		symbol, len(res.Truncated), len(res.Passed), passedVerb(res.Mode), len(res.Superseded), len(res.Failures), res.Output)
	return err
}

func passedVerb(mode string) string {
	if mode == "copy" {
		return "copied"
	}
	return "linked"
}

func chain(s overlap.Segment) string {
	names := []string{s.Records[0].Earlier.Name}
	for _, r := range s.Records {
		names = append(names, r.Later.Name)
	}
	return strings.Join(names, " > ")
}
