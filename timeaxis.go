// Package timeaxis validates and reconciles the time axes of climate time
// series split across per-interval files.
//
// An Engine checks that files in a directory form one continuous time axis
// (Validate), lists adjacent files whose bounds do not meet (Overlaps),
// writes a reconciled copy of a directory in which overlapping production
// streams are truncated where the next stream begins (Repair), and detects
// files whose time units disagree with the rest of the set (Units).
package timeaxis

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/calendar"
	"github.com/agentstation/timeaxis/pkg/catalog"
	"github.com/agentstation/timeaxis/pkg/continuity"
	"github.com/agentstation/timeaxis/pkg/deoverlap"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/logging"
	"github.com/agentstation/timeaxis/pkg/overlap"
	"github.com/agentstation/timeaxis/pkg/report"
	"github.com/agentstation/timeaxis/pkg/units"
)

// Engine runs the time axis operations on dataset directories
type Engine interface {
	// Validate checks continuity and returns the report. Fatal catalog or
	// axis problems are returned as errors before any file is checked.
	Validate(ctx context.Context, dir string) (*report.Report, error)

	// Overlaps lists misaligned adjacent pairs and the segments they form.
	Overlaps(ctx context.Context, dir string) (*OverlapReport, error)

	// Repair writes the reconciled file set of dir into out.
	Repair(ctx context.Context, dir, out string) (*RepairReport, error)

	// Units compares the time units of every file in dir.
	Units(ctx context.Context, dir string) (*units.Result, error)

	// OnIssue registers a callback for validation issues
	OnIssue(IssueHook)

	// OnSegment registers a callback for overlap segments
	OnSegment(SegmentHook)

	// OnTruncated registers a callback for truncated files
	OnTruncated(TruncatedHook)
}

// PairFailure is an adjacent pair whose bounds could not be compared.
type PairFailure struct {
	Earlier string `json:"earlier" yaml:"earlier"`
	Later   string `json:"later" yaml:"later"`
	Message string `json:"message" yaml:"message"`
}

// OverlapReport is the dry run view of a directory.
type OverlapReport struct {
	Dataset  string            `json:"dataset" yaml:"dataset"`
	Files    int               `json:"files" yaml:"files"`
	Streams  []string          `json:"streams" yaml:"streams"`
	Records  []overlap.Record  `json:"records" yaml:"records"`
	Segments []overlap.Segment `json:"segments" yaml:"segments"`
	Failures []PairFailure     `json:"failures,omitempty" yaml:"failures,omitempty"`

	files []catalog.File
}

// RepairReport is the outcome of a repair.
type RepairReport struct {
	Dataset  string            `json:"dataset" yaml:"dataset"`
	Streams  []string          `json:"streams" yaml:"streams"`
	Segments []overlap.Segment `json:"segments" yaml:"segments"`
	Result   *deoverlap.Result `json:"result" yaml:"result"`

	// Remaining holds misaligned pairs still found in the output directory.
	Remaining []overlap.Record `json:"remaining" yaml:"remaining"`
}

// engine is the internal implementation of the Engine interface
type engine struct {
	config *config
	hooks  *hooks
	reader *axis.Reader
}

// New creates a new Engine with the given options
func New(opts ...Option) (Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if cfg.opener == nil || cfg.truncator == nil {
		return nil, errors.NewConfigError("engine", "opener and truncator are required", nil)
	}
	return &engine{config: cfg, hooks: newHooks(), reader: axis.NewReader(cfg.opener)}, nil
}

func (e *engine) OnIssue(fn IssueHook)         { e.hooks.OnIssue(fn) }
func (e *engine) OnSegment(fn SegmentHook)     { e.hooks.OnSegment(fn) }
func (e *engine) OnTruncated(fn TruncatedHook) { e.hooks.OnTruncated(fn) }

func (e *engine) logger(ctx context.Context) *zerolog.Logger {
	if e.config.logger != nil {
		return e.config.logger
	}
	return logging.FromContext(ctx)
}

// scan lists dir and reads the first file's axis, so that every fatal
// condition surfaces before a parallel phase starts.
func (e *engine) scan(dir string) (*catalog.Catalog, *axis.Info, error) {
	cat, err := catalog.Scan(dir,
		catalog.WithExtension(e.config.extension),
		catalog.WithMarkers(e.config.suffix))
	if err != nil {
		return nil, nil, err
	}
	if cat.Len() == 0 {
		return nil, nil, errors.NewValidationError("dir", dir, "no time series files found")
	}

	first, err := e.reader.Read(cat.Files[0].Path)
	if err != nil {
		return nil, nil, err
	}
	return cat, first, nil
}

// frequency detects the run's frequency from the first file with data and
// the file after it. Empty or unreadable files ahead of it are left to the
// continuity check to report. A run without any data gets the zero
// Frequency; every file in it is reported empty.
func (e *engine) frequency(cat *catalog.Catalog, first *axis.Info) (calendar.Frequency, error) {
	i, head := 0, first
	for head.Empty() && !calendar.IsMonthlyTag(head.Freq) {
		i++
		if i >= cat.Len() {
			return calendar.Frequency{}, nil
		}
		if info, err := e.reader.Read(cat.Files[i].Path); err == nil {
			head = info
		}
	}

	var next *axis.Info
	if i+1 < cat.Len() {
		if info, err := e.reader.Read(cat.Files[i+1].Path); err == nil {
			next = info
		}
	}
	return axis.DetectFrequency(head, next)
}

// Validate implements Engine.
func (e *engine) Validate(ctx context.Context, dir string) (*report.Report, error) {
	ctx = logging.WithDataset(ctx, dir)
	log := e.logger(ctx)

	cat, first, err := e.scan(dir)
	if err != nil {
		return nil, err
	}
	freq, err := e.frequency(cat, first)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("files", cat.Len()).
		Str("frequency", freq.String()).
		Msg("Checking time axis continuity")

	checker := continuity.New(e.reader, continuity.Options{Jobs: e.config.jobs, Logger: log})
	rep := checker.Check(ctx, dir, cat.Files, freq)
	e.hooks.triggerIssues(rep)
	return rep, nil
}

// Overlaps implements Engine.
func (e *engine) Overlaps(ctx context.Context, dir string) (*OverlapReport, error) {
	ctx = logging.WithDataset(ctx, dir)
	cat, _, err := e.scan(dir)
	if err != nil {
		return nil, err
	}
	rep := e.overlaps(ctx, dir, cat)
	e.hooks.triggerSegments(rep.Segments)
	return rep, nil
}

func (e *engine) overlaps(ctx context.Context, dir string, cat *catalog.Catalog) *OverlapReport {
	log := e.logger(ctx)
	detector := overlap.NewDetector(e.reader, overlap.Options{Jobs: e.config.jobs, Logger: log})
	records, failures := detector.Detect(ctx, cat.Files)

	rep := &OverlapReport{
		Dataset:  dir,
		Files:    cat.Len(),
		Streams:  cat.Streams().List(),
		Records:  records,
		Segments: overlap.Assemble(records),
		files:    cat.Files,
	}
	for _, f := range failures {
		rep.Failures = append(rep.Failures, PairFailure{
			Earlier: f.Earlier.Name,
			Later:   f.Later.Name,
			Message: f.Err.Error(),
		})
	}
	for i, s := range rep.Segments {
		segCtx := logging.WithSegment(logging.WithLogger(ctx, log), i)
		logging.FromContext(segCtx).Debug().
			Str("from", s.Records[0].Earlier.Name).
			Str("to", s.Records[len(s.Records)-1].Later.Name).
			Float64("start", s.Start).
			Float64("end", s.End).
			Msg("Overlap segment")
	}
	log.Info().
		Strs("streams", rep.Streams).
		Int("records", len(rep.Records)).
		Int("segments", len(rep.Segments)).
		Msg("Overlap segments assembled")
	return rep
}

// Repair implements Engine.
func (e *engine) Repair(ctx context.Context, dir, out string) (*RepairReport, error) {
	ctx = logging.WithLogger(ctx, e.logger(ctx))
	ctx = logging.WithFields(ctx, map[string]any{
		"dataset": dir,
		"output":  out,
		"copy":    e.config.copyFiles,
	})
	log := logging.FromContext(ctx)

	if same, err := samePath(dir, out); err != nil {
		return nil, err
	} else if same {
		return nil, errors.NewValidationError("output", out, "output directory must differ from the dataset directory")
	}

	cat, _, err := e.scan(dir)
	if err != nil {
		return nil, err
	}
	ov := e.overlaps(ctx, dir, cat)
	e.hooks.triggerSegments(ov.Segments)

	d := deoverlap.New(e.reader, deoverlap.Options{
		Jobs:      e.config.jobs,
		Copy:      e.config.copyFiles,
		Suffix:    e.config.suffix,
		Truncator: e.config.truncator,
		Logger:    log,
		Now:       e.config.now,
	})
	res, err := d.Run(ctx, ov.files, ov.Segments, out)
	if err != nil {
		return nil, err
	}
	e.hooks.triggerTruncated(res)

	rep := &RepairReport{
		Dataset:   dir,
		Streams:   ov.Streams,
		Segments:  ov.Segments,
		Result:    res,
		Remaining: []overlap.Record{},
	}

	outCat, err := catalog.Scan(out,
		catalog.WithExtension(e.config.extension),
		catalog.WithMarkers(e.config.suffix))
	if err != nil {
		return nil, err
	}
	remaining, _ := overlap.NewDetector(e.reader, overlap.Options{Jobs: e.config.jobs, Logger: log}).
		Detect(ctx, outCat.Files)
	for _, r := range remaining {
		if r.Kind == overlap.KindOverlap {
			rep.Remaining = append(rep.Remaining, r)
		}
	}
	if len(rep.Remaining) > 0 {
		log.Warn().Int("remaining", len(rep.Remaining)).Msg("Output still holds overlapping files")
	}
	return rep, nil
}

// Units implements Engine.
func (e *engine) Units(ctx context.Context, dir string) (*units.Result, error) {
	ctx = logging.WithDataset(ctx, dir)
	cat, _, err := e.scan(dir)
	if err != nil {
		return nil, err
	}
	return units.New(e.reader, units.Options{Jobs: e.config.jobs, Logger: e.logger(ctx)}).Check(ctx, cat.Files)
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, errors.WrapIO("read", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, errors.WrapIO("read", b, err)
	}
	return filepath.Clean(absA) == filepath.Clean(absB), nil
}
