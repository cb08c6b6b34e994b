// Package axistest provides in-memory datasets for tests of the engine
// packages. A Store implements axis.Opener and axis.Truncator and resolves
// files by base name, so copies, links and truncated outputs of a file all
// open the same dataset.
package axistest

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/calendar"
	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
)

// DefaultUnits is the time unit given to datasets built by New.
const DefaultUnits = "days since 0001-01-01 00:00:00"

// Variable is one in-memory variable. One dimensional variables use Data,
// (n, 2) variables use Pairs.
type Variable struct {
	Dims  []string
	Attrs map[string]string
	Data  []float64
	Pairs [][2]float64
}

func (v *Variable) clone() *Variable {
	return &Variable{
		Dims:  slices.Clone(v.Dims),
		Attrs: maps.Clone(v.Attrs),
		Data:  slices.Clone(v.Data),
		Pairs: slices.Clone(v.Pairs),
	}
}

// Dataset is an in-memory axis.Dataset.
type Dataset struct {
	Attrs map[string]string
	Vars  map[string]*Variable
}

var _ axis.Dataset = (*Dataset)(nil)

// New returns a dataset with a "time" variable holding the upper bound of
// each step and a "time_bnds" variable holding bounds.
func New(bounds [][2]float64) *Dataset {
	times := make([]float64, len(bounds))
	for i, b := range bounds {
		times[i] = b[1]
	}
	return &Dataset{
		Attrs: map[string]string{},
		Vars: map[string]*Variable{
			"time": {
				Dims: []string{"time"},
				Attrs: map[string]string{
					constants.UnitsAttribute:    DefaultUnits,
					constants.CalendarAttribute: "noleap",
					"bounds":                    "time_bnds",
				},
				Data: times,
			},
			"time_bnds": {
				Dims:  []string{"time", "nbnd"},
				Attrs: map[string]string{},
				Pairs: slices.Clone(bounds),
			},
		},
	}
}

// Span returns contiguous bounds from start to end in steps of step.
func Span(start, end, step float64) [][2]float64 {
	var out [][2]float64
	for lo := start; lo < end; lo += step {
		out = append(out, [2]float64{lo, lo + step})
	}
	return out
}

// Months returns n contiguous monthly bounds in the no-leap calendar
// starting at day start with the given month (1..12).
func Months(start float64, month, n int) [][2]float64 {
	out := make([][2]float64, n)
	lo := start
	for i := range out {
		hi := lo + float64(calendar.NoLeap.DaysInMonth(month+i))
		out[i] = [2]float64{lo, hi}
		lo = hi
	}
	return out
}

// WithFreq sets the time_period_freq global attribute.
func (d *Dataset) WithFreq(tag string) *Dataset {
	d.Attrs[constants.FreqAttribute] = tag
	return d
}

// WithTimes replaces the time values.
func (d *Dataset) WithTimes(times ...float64) *Dataset {
	d.Vars["time"].Data = times
	return d
}

// WithUnits sets the units attribute of the time variable.
func (d *Dataset) WithUnits(units string) *Dataset {
	d.Vars["time"].Attrs[constants.UnitsAttribute] = units
	return d
}

// WithCalendar sets the calendar attribute of the time variable.
func (d *Dataset) WithCalendar(name string) *Dataset {
	d.Vars["time"].Attrs[constants.CalendarAttribute] = name
	return d
}

// WithVariable adds or replaces a variable.
func (d *Dataset) WithVariable(name string, v *Variable) *Dataset {
	if v.Attrs == nil {
		v.Attrs = map[string]string{}
	}
	d.Vars[name] = v
	return d
}

// Rename moves a variable to a new name.
func (d *Dataset) Rename(from, to string) *Dataset {
	if v, ok := d.Vars[from]; ok {
		delete(d.Vars, from)
		d.Vars[to] = v
	}
	return d
}

// Without removes a variable.
func (d *Dataset) Without(name string) *Dataset {
	delete(d.Vars, name)
	return d
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Attrs: maps.Clone(d.Attrs), Vars: make(map[string]*Variable, len(d.Vars))}
	for k, v := range d.Vars {
		out.Vars[k] = v.clone()
	}
	return out
}

// GlobalAttribute implements axis.Dataset.
func (d *Dataset) GlobalAttribute(name string) (string, bool) {
	v, ok := d.Attrs[name]
	return v, ok
}

// HasVariable implements axis.Dataset.
func (d *Dataset) HasVariable(name string) bool {
	_, ok := d.Vars[name]
	return ok
}

// VariableAttribute implements axis.Dataset.
func (d *Dataset) VariableAttribute(variable, name string) (string, bool) {
	v, ok := d.Vars[variable]
	if !ok {
		return "", false
	}
	a, ok := v.Attrs[name]
	return a, ok
}

// Dimensions implements axis.Dataset.
func (d *Dataset) Dimensions(variable string) ([]string, error) {
	v, ok := d.Vars[variable]
	if !ok {
		return nil, errors.NewNotFoundError("variable", variable)
	}
	return v.Dims, nil
}

// Values implements axis.Dataset.
func (d *Dataset) Values(variable string) ([]float64, error) {
	v, ok := d.Vars[variable]
	if !ok {
		return nil, errors.NewNotFoundError("variable", variable)
	}
	if len(v.Pairs) > 0 && len(v.Data) == 0 {
		return nil, fmt.Errorf("variable %s is not one dimensional", variable)
	}
	return v.Data, nil
}

// Bounds implements axis.Dataset.
func (d *Dataset) Bounds(variable string) ([][2]float64, error) {
	v, ok := d.Vars[variable]
	if !ok {
		return nil, errors.NewNotFoundError("variable", variable)
	}
	if len(v.Data) > 0 && len(v.Pairs) == 0 {
		return nil, fmt.Errorf("variable %s is not a bounds variable", variable)
	}
	return v.Pairs, nil
}

// Close implements axis.Dataset.
func (d *Dataset) Close() error {
	return nil
}

// Store is a concurrency safe set of named datasets.
type Store struct {
	mu          sync.Mutex
	datasets    map[string]*Dataset
	truncations []axis.TruncateRequest

	// BeforeOpen, when set, runs before every Open with the base name.
	BeforeOpen func(name string)

	// TruncateErr makes Truncate fail for the given destination base names.
	TruncateErr map[string]error
}

var (
	_ axis.Opener    = (*Store)(nil)
	_ axis.Truncator = (*Store)(nil)
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{datasets: map[string]*Dataset{}, TruncateErr: map[string]error{}}
}

// Put registers ds under the base name of name.
func (s *Store) Put(name string, ds *Dataset) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[filepath.Base(name)] = ds
	return s
}

// Get returns the dataset registered under the base name of name.
func (s *Store) Get(name string) (*Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.datasets[filepath.Base(name)]
	return ds, ok
}

// Names returns the registered names in lexical order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.datasets))
}

// Materialize creates one placeholder file per registered dataset in dir so
// that directory scans and copies see them.
func (s *Store) Materialize(dir string) error {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return err
	}
	for _, name := range s.Names() {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), constants.FilePermissions); err != nil {
			return err
		}
	}
	return nil
}

// Open implements axis.Opener.
func (s *Store) Open(path string) (axis.Dataset, error) {
	name := filepath.Base(path)
	if s.BeforeOpen != nil {
		s.BeforeOpen(name)
	}
	ds, ok := s.Get(name)
	if !ok {
		return nil, errors.NewNotFoundError("dataset", name)
	}
	return ds.Clone(), nil
}

// Truncate implements axis.Truncator. The truncated dataset is registered
// under the destination name and a placeholder file is written there.
func (s *Store) Truncate(_ context.Context, req axis.TruncateRequest) error {
	dest := filepath.Base(req.Dest)

	s.mu.Lock()
	s.truncations = append(s.truncations, req)
	failure := s.TruncateErr[dest]
	s.mu.Unlock()
	if failure != nil {
		return failure
	}

	src, ok := s.Get(req.Source)
	if !ok {
		return errors.NewNotFoundError("dataset", filepath.Base(req.Source))
	}
	out := src.Clone()
	for name, v := range out.Vars {
		if len(v.Dims) == 0 || v.Dims[0] != req.TimeDim {
			continue
		}
		n := max(len(v.Data), len(v.Pairs))
		if req.Keep < 0 || req.Keep > n {
			return errors.NewValidationError(name, req.Keep, "keep is outside the time axis")
		}
		if v.Data != nil {
			v.Data = v.Data[:req.Keep]
		}
		if v.Pairs != nil {
			v.Pairs = v.Pairs[:req.Keep]
		}
	}
	if old := out.Attrs[constants.HistoryAttribute]; old != "" {
		out.Attrs[constants.HistoryAttribute] = req.History + "\n" + old
	} else {
		out.Attrs[constants.HistoryAttribute] = req.History
	}

	if err := os.WriteFile(req.Dest, []byte(dest), constants.FilePermissions); err != nil {
		return err
	}
	s.Put(dest, out)
	return nil
}

// Truncations returns every Truncate request received, in call order.
func (s *Store) Truncations() []axis.TruncateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.truncations)
}
