// Package deoverlap writes a reconciled file set: every cut file is
// truncated where the next stream begins and every other file is copied or
// linked into the output directory unchanged.
package deoverlap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/catalog"
	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/logging"
	"github.com/agentstation/timeaxis/pkg/overlap"
	"github.com/agentstation/timeaxis/pkg/pool"
	"github.com/agentstation/timeaxis/pkg/report"
)

// historyLayout matches the timestamp NCO and CDO prefix history lines with.
const historyLayout = "Mon Jan 02 15:04:05 2006"

// Options configures a Deoverlapper.
type Options struct {
	// Jobs is the worker count of each phase.
	Jobs int

	// Copy copies passthrough files instead of symlinking them.
	Copy bool

	// Suffix is inserted between stem and extension of truncated outputs.
	// Empty selects constants.TruncSuffix.
	Suffix string

	// Truncator writes truncated files. Required.
	Truncator axis.Truncator

	// Logger receives progress. Nil selects the context logger.
	Logger *zerolog.Logger

	// Now stamps history lines. Nil selects utc.Now.
	Now func() utc.Time
}

// Deoverlapper repairs one directory.
type Deoverlapper struct {
	reader *axis.Reader
	opts   Options
}

// New returns a Deoverlapper reading files with reader.
func New(reader *axis.Reader, opts Options) *Deoverlapper {
	if opts.Suffix == "" {
		opts.Suffix = constants.TruncSuffix
	}
	if opts.Now == nil {
		opts.Now = utc.Now
	}
	return &Deoverlapper{reader: reader, opts: opts}
}

// Truncation is one written truncated file.
type Truncation struct {
	Source string  `json:"source" yaml:"source"`
	Output string  `json:"output" yaml:"output"`
	Keep   int     `json:"keep" yaml:"keep"`
	At     float64 `json:"at" yaml:"at"`
}

// Failure is a file that could not be written.
type Failure struct {
	File    string `json:"file" yaml:"file"`
	Message string `json:"message" yaml:"message"`
	Err     error  `json:"-" yaml:"-"`
}

func newFailure(file string, err error) Failure {
	return Failure{File: file, Message: err.Error(), Err: err}
}

// Error returns the failure message.
func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.File, f.Message)
}

// Result summarises one run. File lists hold base names in catalog order.
type Result struct {
	Output     string       `json:"output" yaml:"output"`
	Mode       string       `json:"mode" yaml:"mode"`
	Passed     []string     `json:"passed" yaml:"passed"`
	Truncated  []Truncation `json:"truncated" yaml:"truncated"`
	Superseded []string     `json:"superseded" yaml:"superseded"`
	Unmatched  []string     `json:"unmatched" yaml:"unmatched"`
	Failures   []Failure    `json:"failures" yaml:"failures"`
}

// OK reports whether every file was written.
func (r *Result) OK() bool {
	return len(r.Failures) == 0
}

type outcome int

const (
	outcomeTruncated outcome = iota
	outcomeSuperseded
	outcomeUnmatched
)

type cutResult struct {
	outcome    outcome
	truncation Truncation
}

// OutputName returns the name of the truncated copy of name.
func (d *Deoverlapper) OutputName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + d.opts.Suffix + ext
}

// Run reconciles files, which must be in catalog order, into outDir. Per
// file failures are collected in the result; only an unusable output
// directory is returned as an error.
func (d *Deoverlapper) Run(ctx context.Context, files []catalog.File, segments []overlap.Segment, outDir string) (*Result, error) {
	log := d.opts.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}
	if d.opts.Truncator == nil {
		return nil, errors.NewConfigError("deoverlap", "no truncator configured", nil)
	}
	if err := os.MkdirAll(outDir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("write", outDir, err)
	}

	res := &Result{Output: outDir, Mode: "link"}
	if d.opts.Copy {
		res.Mode = "copy"
	}

	cuts := overlap.Cuts(segments)
	cutPaths := make(map[string]bool, len(cuts))
	for _, c := range cuts {
		cutPaths[c.File.Path] = true
	}

	truncated := pool.Run(ctx, pool.Config{Jobs: d.opts.Jobs, Phase: "truncate", Logger: log}, cuts,
		func(ctx context.Context, c overlap.Cut) (cutResult, error) {
			return d.truncate(ctx, c, outDir)
		})
	slices.SortFunc(truncated, func(a, b pool.Result[overlap.Cut, cutResult]) int {
		return catalog.Compare(a.Item.File, b.Item.File)
	})

	for _, r := range truncated {
		name := r.Item.File.Name
		if r.Err != nil {
			log.Error().Err(r.Err).Str("file", name).Msg("Truncation failed")
			res.Failures = append(res.Failures, newFailure(name, r.Err))
			continue
		}
		switch r.Value.outcome {
		case outcomeTruncated:
			res.Truncated = append(res.Truncated, r.Value.truncation)
		case outcomeSuperseded:
			log.Warn().Str("file", name).Str("by", r.Item.Next.Name).
				Msg("File fully covered by the next stream, not written")
			res.Superseded = append(res.Superseded, name)
		case outcomeUnmatched:
			log.Warn().Str("file", name).Str("at", report.FormatValue(r.Item.At)).
				Msg("No step starts at the cut bound, passing file through")
			res.Unmatched = append(res.Unmatched, name)
			delete(cutPaths, r.Item.File.Path)
		}
	}

	var passthrough []catalog.File
	for _, f := range files {
		if !cutPaths[f.Path] {
			passthrough = append(passthrough, f)
		}
	}
	passed := pool.Run(ctx, pool.Config{Jobs: d.opts.Jobs, Phase: "passthrough", Logger: log}, passthrough,
		func(_ context.Context, f catalog.File) (struct{}, error) {
			dest := filepath.Join(outDir, f.Name)
			if d.opts.Copy {
				return struct{}{}, copyFile(f.Path, dest)
			}
			return struct{}{}, linkFile(f.Path, dest)
		})
	slices.SortFunc(passed, func(a, b pool.Result[catalog.File, struct{}]) int {
		return catalog.Compare(a.Item, b.Item)
	})
	for _, r := range passed {
		if r.Err != nil {
			log.Error().Err(r.Err).Str("file", r.Item.Name).Msg("Passthrough failed")
			res.Failures = append(res.Failures, newFailure(r.Item.Name, r.Err))
			continue
		}
		res.Passed = append(res.Passed, r.Item.Name)
	}

	log.Info().
		Int("passed", len(res.Passed)).
		Int("truncated", len(res.Truncated)).
		Int("superseded", len(res.Superseded)).
		Int("failures", len(res.Failures)).
		Str("output", outDir).
		Msg("Deoverlap complete")
	return res, nil
}

// truncate cuts c.File before the first step whose lower bound is c.At.
func (d *Deoverlapper) truncate(ctx context.Context, c overlap.Cut, outDir string) (cutResult, error) {
	info, err := d.reader.Read(c.File.Path)
	if err != nil {
		return cutResult{}, err
	}
	keep := info.IndexOfLowerBound(c.At)
	switch {
	case keep < 0:
		return cutResult{outcome: outcomeUnmatched}, nil
	case keep == 0:
		return cutResult{outcome: outcomeSuperseded}, nil
	}

	out := d.OutputName(c.File.Name)
	req := axis.TruncateRequest{
		Source:  c.File.Path,
		Dest:    filepath.Join(outDir, out),
		TimeDim: info.TimeDim,
		Keep:    keep,
		History: fmt.Sprintf("%s: timeaxis deoverlap: kept %d of %d time steps of %s, ending at %s where %s begins",
			d.opts.Now().Format(historyLayout), keep, info.Steps(), c.File.Name,
			report.FormatValue(c.At), c.Next.Name),
	}
	if err := d.opts.Truncator.Truncate(logging.WithFile(ctx, c.File.Name), req); err != nil {
		return cutResult{}, err
	}
	return cutResult{
		outcome:    outcomeTruncated,
		truncation: Truncation{Source: c.File.Name, Output: out, Keep: keep, At: c.At},
	}, nil
}
