package units

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/catalog"
	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/logging"
	"github.com/agentstation/timeaxis/pkg/pool"
	"github.com/agentstation/timeaxis/pkg/report"
)

// Correction tells a repair step how to rewrite one file's time values.
type Correction struct {
	File   string  `json:"file" yaml:"file"`
	Units  string  `json:"units" yaml:"units"`
	Offset float64 `json:"offset" yaml:"offset"`
}

// Line returns the side channel line.
func (c Correction) Line() string {
	return fmt.Sprintf("correct_units=%s,offset=%s", c.Units, report.FormatValue(c.Offset))
}

// FileUnits is the units string of one file.
type FileUnits struct {
	File  string `json:"file" yaml:"file"`
	Units string `json:"units" yaml:"units"`
}

// Result is the outcome of a units check.
type Result struct {
	Majority   string         `json:"majority" yaml:"majority"`
	Counts     map[string]int `json:"counts" yaml:"counts"`
	Mismatches []FileUnits    `json:"mismatches" yaml:"mismatches"`
	Unreadable []string       `json:"unreadable,omitempty" yaml:"unreadable,omitempty"`
	Correction *Correction    `json:"correction,omitempty" yaml:"correction,omitempty"`
}

// Options configures a Checker.
type Options struct {
	Jobs   int
	Logger *zerolog.Logger
}

// Checker compares the time units of a file set.
type Checker struct {
	reader *axis.Reader
	opts   Options
}

// New returns a Checker reading files with reader.
func New(reader *axis.Reader, opts Options) *Checker {
	return &Checker{reader: reader, opts: opts}
}

type fileInfo struct {
	units    string
	calendar string
}

// Check reads the units of every file, which must be in catalog order. The
// majority units string wins; ties go to the string seen first. The
// correction targets the first mismatching file.
func (c *Checker) Check(ctx context.Context, files []catalog.File) (*Result, error) {
	log := c.opts.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}

	results := pool.Run(ctx, pool.Config{Jobs: c.opts.Jobs, Phase: "units", Logger: log}, files,
		func(_ context.Context, f catalog.File) (fileInfo, error) {
			info, err := c.reader.Read(f.Path)
			if err != nil {
				return fileInfo{}, err
			}
			return fileInfo{units: info.Units, calendar: info.Calendar}, nil
		})
	slices.SortFunc(results, func(a, b pool.Result[catalog.File, fileInfo]) int {
		return catalog.Compare(a.Item, b.Item)
	})

	res := &Result{Counts: map[string]int{}, Mismatches: []FileUnits{}}
	var order []string
	calendars := map[string]string{}
	for _, r := range results {
		if r.Err != nil {
			log.Warn().Err(r.Err).Str("file", r.Item.Name).Msg("Unable to read time units")
			res.Unreadable = append(res.Unreadable, r.Item.Name)
			continue
		}
		u := r.Value.units
		if _, seen := res.Counts[u]; !seen {
			order = append(order, u)
			calendars[u] = r.Value.calendar
		}
		res.Counts[u]++
	}
	if len(order) == 0 {
		return nil, errors.NewValidationError("files", len(files), "no readable time units")
	}

	for _, u := range order {
		if res.Counts[u] > res.Counts[res.Majority] {
			res.Majority = u
		}
	}
	majority, err := Parse(res.Majority)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Err != nil || r.Value.units == res.Majority {
			continue
		}
		res.Mismatches = append(res.Mismatches, FileUnits{File: r.Item.Name, Units: r.Value.units})
		if res.Correction != nil {
			continue
		}
		other, err := Parse(r.Value.units)
		if err != nil {
			log.Warn().Err(err).Str("file", r.Item.Name).Msg("Unparseable time units")
			continue
		}
		res.Correction = &Correction{
			File:   r.Item.Name,
			Units:  res.Majority,
			Offset: majority.Offset(other, calendars[res.Majority]),
		}
	}

	log.Info().
		Str("majority", res.Majority).
		Int("mismatches", len(res.Mismatches)).
		Msg("Units check complete")
	return res, nil
}

// Emit writes the correction line to the file at path, or to w when path
// is empty.
func Emit(c Correction, path string, w io.Writer) error {
	line := c.Line() + "\n"
	if path == "" {
		_, err := io.WriteString(w, line)
		return err
	}
	if err := os.WriteFile(path, []byte(line), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
