// Package catalog discovers the files of a time series in a directory and
// orders them chronologically by their embedded date stamp.
package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
)

// Catalog is the chronologically ordered file set of one directory.
type Catalog struct {
	Dir     string
	Files   []File
	streams *Streams
}

type options struct {
	extension string
	markers   []string
}

// Option configures Scan.
type Option func(*options)

// WithExtension restricts the scan to names ending in ext. An empty ext
// includes every regular file.
func WithExtension(ext string) Option {
	return func(o *options) {
		o.extension = ext
	}
}

// WithMarkers sets the derived-file markers stripped from the sort key.
func WithMarkers(markers ...string) Option {
	return func(o *options) {
		o.markers = markers
	}
}

func defaultOptions() *options {
	return &options{
		extension: ".nc",
		markers:   []string{constants.TruncSuffix},
	}
}

// Scan lists dir and returns its catalog. Hidden files and directories are
// skipped. Any remaining name without a date stamp aborts the scan with a
// PatternNotFound error.
func Scan(dir string, opts ...Option) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("directory", dir)
		}
		return nil, errors.WrapIO("read", dir, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if o.extension != "" && !strings.HasSuffix(name, o.extension) {
			continue
		}
		names = append(names, name)
	}
	return build(dir, names, o)
}

// FromNames builds a catalog from names relative to dir without touching
// the file system.
func FromNames(dir string, names []string, opts ...Option) (*Catalog, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return build(dir, names, o)
}

func build(dir string, names []string, o *options) (*Catalog, error) {
	files := make([]File, 0, len(names))
	for _, name := range names {
		f, err := ParseFile(filepath.Join(dir, name), o.markers...)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	slices.SortStableFunc(files, Compare)

	streams := NewStreams()
	for _, f := range files {
		streams.Add(f.Prefix)
	}
	return &Catalog{Dir: dir, Files: files, streams: streams}, nil
}

// Len returns the number of files.
func (c *Catalog) Len() int {
	return len(c.Files)
}

// Streams returns the stream prefixes in order of first appearance.
func (c *Catalog) Streams() *Streams {
	return c.streams
}

// Paths returns the ordered file paths.
func (c *Catalog) Paths() []string {
	out := make([]string, len(c.Files))
	for i, f := range c.Files {
		out[i] = f.Path
	}
	return out
}

// Pairs returns every adjacent (i, i+1) file pair in order.
func (c *Catalog) Pairs() []Pair {
	if len(c.Files) < 2 {
		return nil
	}
	pairs := make([]Pair, 0, len(c.Files)-1)
	for i := 0; i+1 < len(c.Files); i++ {
		pairs = append(pairs, Pair{Index: i, Earlier: c.Files[i], Later: c.Files[i+1]})
	}
	return pairs
}

// Pair is two files adjacent in chronological order.
type Pair struct {
	Index   int
	Earlier File
	Later   File
}
