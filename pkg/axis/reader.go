package axis

import (
	"path/filepath"

	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
)

// Info is the time axis summary of one file.
type Info struct {
	Path      string
	TimeVar   string
	BoundsVar string
	TimeDim   string
	Units     string
	Calendar  string
	Freq      string
	Times     []float64
	Bounds    [][2]float64
}

// Name returns the base name of the file.
func (i *Info) Name() string {
	return filepath.Base(i.Path)
}

// Steps returns the length of the time axis.
func (i *Info) Steps() int {
	return len(i.Bounds)
}

// Empty reports whether the axis has no steps. An empty Info is the "no
// data" result; its bound accessors return zero.
func (i *Info) Empty() bool {
	return len(i.Bounds) == 0
}

// FirstBound returns the lower bound of the first step.
func (i *Info) FirstBound() float64 {
	if i.Empty() {
		return 0
	}
	return i.Bounds[0][0]
}

// LastBound returns the upper bound of the last step.
func (i *Info) LastBound() float64 {
	if i.Empty() {
		return 0
	}
	return i.Bounds[len(i.Bounds)-1][1]
}

// IndexOfLowerBound returns the first step whose lower bound equals v, or -1.
func (i *Info) IndexOfLowerBound(v float64) int {
	for k, b := range i.Bounds {
		if b[0] == v {
			return k
		}
	}
	return -1
}

// Reader extracts Info from files.
type Reader struct {
	opener Opener
}

// NewReader returns a Reader using opener.
func NewReader(opener Opener) *Reader {
	return &Reader{opener: opener}
}

// Opener returns the underlying opener.
func (r *Reader) Opener() Opener {
	return r.opener
}

// Read opens path and extracts its time axis. A file lacking both time
// variable candidates, or both bounds candidates, yields an AxisNotFound
// error. A zero length axis is returned as an empty Info, not an error.
func (r *Reader) Read(path string) (*Info, error) {
	ds, err := r.opener.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer ds.Close()

	info := &Info{Path: path}

	info.TimeVar = firstPresent(ds, constants.TimeVarCandidates)
	if info.TimeVar == "" {
		return nil, errors.NewAxisNotFoundError(path, constants.TimeVarCandidates...)
	}

	if name, ok := ds.VariableAttribute(info.TimeVar, "bounds"); ok && ds.HasVariable(name) {
		info.BoundsVar = name
	} else {
		info.BoundsVar = firstPresent(ds, constants.BoundsVarCandidates)
	}
	if info.BoundsVar == "" {
		return nil, errors.NewAxisNotFoundError(path, constants.BoundsVarCandidates...)
	}

	info.Units, _ = ds.VariableAttribute(info.TimeVar, constants.UnitsAttribute)
	info.Calendar, _ = ds.VariableAttribute(info.TimeVar, constants.CalendarAttribute)
	info.Freq, _ = ds.GlobalAttribute(constants.FreqAttribute)

	dims, err := ds.Dimensions(info.TimeVar)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	if len(dims) > 0 {
		info.TimeDim = dims[0]
	} else {
		info.TimeDim = info.TimeVar
	}

	if info.Times, err = ds.Values(info.TimeVar); err != nil {
		return nil, errors.WrapParse("netcdf", path, err)
	}
	if info.Bounds, err = ds.Bounds(info.BoundsVar); err != nil {
		return nil, errors.WrapParse("netcdf", path, err)
	}
	if len(info.Times) != len(info.Bounds) {
		return nil, errors.NewValidationError(info.BoundsVar, len(info.Bounds),
			"bounds length differs from time axis length in "+info.Name())
	}
	return info, nil
}

func firstPresent(ds Dataset, candidates []string) string {
	for _, name := range candidates {
		if ds.HasVariable(name) {
			return name
		}
	}
	return ""
}
