// Package continuity validates that the time values of an ordered file set
// advance by the run's Frequency, within and across files.
package continuity

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/calendar"
	"github.com/agentstation/timeaxis/pkg/catalog"
	"github.com/agentstation/timeaxis/pkg/logging"
	"github.com/agentstation/timeaxis/pkg/pool"
	"github.com/agentstation/timeaxis/pkg/report"
)

// Options configures a Checker.
type Options struct {
	// Jobs is the worker count of the per-file phase.
	Jobs int

	// Logger receives progress. Nil selects the context logger.
	Logger *zerolog.Logger
}

// Checker runs the continuity check.
type Checker struct {
	reader *axis.Reader
	opts   Options
}

// New returns a Checker reading files with reader.
func New(reader *axis.Reader, opts Options) *Checker {
	return &Checker{reader: reader, opts: opts}
}

// span is the per-file result of the parallel phase.
type span struct {
	first  float64
	last   float64
	empty  bool
	issues []report.Issue
}

// Check validates files, which must be in catalog order, against freq and
// returns the populated report. Every file is checked; issues never stop
// the run.
func (c *Checker) Check(ctx context.Context, dataset string, files []catalog.File, freq calendar.Frequency) *report.Report {
	log := c.opts.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}

	rep := report.New(dataset)
	rep.Frequency = freq.String()
	rep.Files = len(files)

	results := pool.Run(ctx, pool.Config{Jobs: c.opts.Jobs, Phase: "continuity", Logger: log}, files,
		func(_ context.Context, f catalog.File) (span, error) {
			info, err := c.reader.Read(f.Path)
			if err != nil {
				return span{}, err
			}
			return scan(f, info.Times, freq), nil
		})

	// Workers finish in any order; the cross-file comparison needs file order.
	slices.SortFunc(results, func(a, b pool.Result[catalog.File, span]) int {
		return catalog.Compare(a.Item, b.Item)
	})

	var (
		prev    float64
		hasPrev bool
	)
	for _, r := range results {
		f := r.Item
		if r.Err != nil {
			log.Warn().Err(r.Err).Str("file", f.Name).Msg("Unable to read time axis")
			rep.Unreadable(f.Name, r.Err)
			if hasPrev {
				prev += freq.Interval(f.Month)
			}
			continue
		}

		s := r.Value
		if s.empty {
			rep.Empty(f.Name)
			if hasPrev {
				prev += freq.Interval(f.Month)
			}
			continue
		}

		if hasPrev && !freq.Matches(s.first-prev, f.Month) {
			rep.Discontinuity(f.Name, s.first, s.first-prev, freq.Interval(f.Month))
		}
		for _, issue := range s.issues {
			rep.Add(issue)
		}
		prev, hasPrev = s.last, true
	}

	log.Info().
		Int("files", len(files)).
		Int("issues", len(rep.Issues)).
		Str("result", rep.Outcome()).
		Msg("Continuity check complete")
	return rep
}

// scan walks the time values of one file. A zero delta in a monthly series
// marks the file as a single step: first and last both become that value.
func scan(f catalog.File, times []float64, freq calendar.Frequency) span {
	if len(times) == 0 {
		return span{empty: true}
	}
	s := span{first: times[0], last: times[0]}
	scratch := report.New("")
	for k := 1; k < len(times); k++ {
		delta := times[k] - times[k-1]
		if delta == 0 && freq.IsMonthly() {
			return span{first: times[k], last: times[k]}
		}
		month := f.Month + k
		if !freq.Matches(delta, month) {
			scratch.Discontinuity(f.Name, times[k], delta, freq.Interval(month))
		}
		s.last = times[k]
	}
	s.issues = scratch.Issues
	return s
}
