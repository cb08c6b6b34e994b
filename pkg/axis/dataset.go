// Package axis reads the time axis of a single time series file and derives
// the expected step Frequency of a run from its first files.
//
// File access goes through the Dataset and Opener interfaces so that the
// engine can run against NetCDF files (package ncfile) or in-memory fakes
// (package axistest).
package axis

import "context"

// Dataset is the read view of one file the engine needs.
type Dataset interface {
	// GlobalAttribute returns a global attribute rendered as a string.
	GlobalAttribute(name string) (string, bool)

	// HasVariable reports whether a variable exists.
	HasVariable(name string) bool

	// VariableAttribute returns an attribute of a variable as a string.
	VariableAttribute(variable, name string) (string, bool)

	// Dimensions returns the dimension names of a variable, outermost first.
	Dimensions(variable string) ([]string, error)

	// Values returns a one dimensional numeric variable as float64.
	Values(variable string) ([]float64, error)

	// Bounds returns a (n, 2) numeric variable as lower/upper pairs.
	Bounds(variable string) ([][2]float64, error)

	// Close releases the underlying file.
	Close() error
}

// Opener opens datasets by path.
type Opener interface {
	Open(path string) (Dataset, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (Dataset, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (Dataset, error) {
	return f(path)
}

// TruncateRequest describes one truncated copy of a file.
type TruncateRequest struct {
	// Source is the file to read.
	Source string
	// Dest is the file to create.
	Dest string
	// TimeDim is the name of the dimension to cut.
	TimeDim string
	// Keep is the number of leading time steps to retain.
	Keep int
	// History is the provenance line recorded in the history attribute.
	History string
}

// Truncator writes a copy of a file whose time dimension holds only the
// first Keep steps. Variables without the time dimension are copied
// verbatim.
type Truncator interface {
	Truncate(ctx context.Context, req TruncateRequest) error
}
