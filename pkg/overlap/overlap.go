// Package overlap finds adjacent files whose bounds do not meet and groups
// the overlapping ones into segments, each naming where coverage switches
// from an earlier production stream to a later one.
package overlap

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/catalog"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/logging"
	"github.com/agentstation/timeaxis/pkg/pool"
)

// Kind classifies a misaligned pair.
type Kind string

const (
	// KindOverlap means the later file starts before the earlier one ends.
	KindOverlap Kind = "overlap"
	// KindGap means the later file starts after the earlier one ends.
	KindGap Kind = "gap"
)

// Record is an adjacent pair whose bounds do not meet.
type Record struct {
	Earlier     catalog.File `json:"earlier" yaml:"earlier"`
	Later       catalog.File `json:"later" yaml:"later"`
	EarlierLast float64      `json:"earlier_last" yaml:"earlier_last"`
	LaterFirst  float64      `json:"later_first" yaml:"later_first"`
	Kind        Kind         `json:"kind" yaml:"kind"`
}

// Failure is a pair that could not be compared.
type Failure struct {
	Earlier catalog.File
	Later   catalog.File
	Err     error
}

// Options configures a Detector.
type Options struct {
	// Jobs is the worker count of the per-pair phase.
	Jobs int

	// Logger receives progress. Nil selects the context logger.
	Logger *zerolog.Logger
}

// Detector compares adjacent file bounds.
type Detector struct {
	reader *axis.Reader
	opts   Options
}

// NewDetector returns a Detector reading files with reader.
func NewDetector(reader *axis.Reader, opts Options) *Detector {
	return &Detector{reader: reader, opts: opts}
}

type verdict struct {
	record  Record
	aligned bool
}

// Detect compares every adjacent pair of files, which must be in catalog
// order. The returned records are in catalog order.
func (d *Detector) Detect(ctx context.Context, files []catalog.File) ([]Record, []Failure) {
	log := d.opts.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}

	pairs := make([]catalog.Pair, 0, max(len(files)-1, 0))
	for i := 0; i+1 < len(files); i++ {
		pairs = append(pairs, catalog.Pair{Index: i, Earlier: files[i], Later: files[i+1]})
	}

	results := pool.Run(ctx, pool.Config{Jobs: d.opts.Jobs, Phase: "overlap", Logger: log}, pairs,
		func(ctx context.Context, p catalog.Pair) (verdict, error) {
			return d.compare(logging.WithField(ctx, "pair", p.Earlier.Name+" > "+p.Later.Name), p)
		})

	// Segment assembly walks records in file order, so completion order
	// must not leak out of this function.
	slices.SortFunc(results, func(a, b pool.Result[catalog.Pair, verdict]) int {
		return catalog.Compare(a.Item.Earlier, b.Item.Earlier)
	})

	var (
		records  []Record
		failures []Failure
	)
	for _, r := range results {
		switch {
		case r.Err != nil:
			log.Warn().Err(r.Err).
				Str("earlier", r.Item.Earlier.Name).
				Str("later", r.Item.Later.Name).
				Msg("Unable to compare bounds")
			failures = append(failures, Failure{Earlier: r.Item.Earlier, Later: r.Item.Later, Err: r.Err})
		case !r.Value.aligned:
			records = append(records, r.Value.record)
		}
	}

	log.Info().
		Int("pairs", len(pairs)).
		Int("records", len(records)).
		Int("failures", len(failures)).
		Msg("Overlap detection complete")
	return records, failures
}

func (d *Detector) compare(ctx context.Context, p catalog.Pair) (verdict, error) {
	earlier, err := d.reader.Read(p.Earlier.Path)
	if err != nil {
		return verdict{}, err
	}
	later, err := d.reader.Read(p.Later.Path)
	if err != nil {
		return verdict{}, err
	}
	for _, info := range []*axis.Info{earlier, later} {
		if info.Empty() {
			return verdict{}, fmt.Errorf("%w in %s", errors.ErrNoData, info.Name())
		}
	}

	last, first := earlier.LastBound(), later.FirstBound()
	if last == first {
		return verdict{aligned: true}, nil
	}
	rec := Record{
		Earlier:     p.Earlier,
		Later:       p.Later,
		EarlierLast: last,
		LaterFirst:  first,
		Kind:        KindGap,
	}
	if first < last {
		rec.Kind = KindOverlap
	}
	logging.FromContext(ctx).Debug().
		Str("kind", string(rec.Kind)).
		Float64("earlier_last", last).
		Float64("later_first", first).
		Msg("Bounds do not meet")
	return verdict{record: rec}, nil
}
