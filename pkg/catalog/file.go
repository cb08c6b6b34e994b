package catalog

import (
	"cmp"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/agentstation/timeaxis/pkg/errors"
)

// StampPattern matches the date stamp embedded in every file name:
// a 4 digit year, a dash, a 2 digit month and an optional dash and day.
const StampPattern = `\d{4}-\d{2}(-\d{2})?`

var stampRegexp = regexp.MustCompile(StampPattern)

// rangeSeparator joins the first and last stamp of a range named file.
const rangeSeparator = "_"

// File is one member of a time series. Identity is Path.
type File struct {
	Path   string `json:"path" yaml:"path"`
	Name   string `json:"name" yaml:"name"`
	Prefix string `json:"stream" yaml:"stream"`
	Stamp  string `json:"stamp" yaml:"stamp"`
	Suffix string `json:"suffix" yaml:"suffix"`
	Year   int    `json:"year" yaml:"year"`
	Month  int    `json:"month" yaml:"month"`
	Day    int    `json:"day,omitempty" yaml:"day,omitempty"`

	// key is Stamp plus Suffix with derived-file markers removed.
	key string
}

// ParseFile splits a path into its stream prefix, date stamp and suffix.
// When the name holds several stamps the last one is used, so that
// prefixes carrying dates of their own do not shift the sort key. Two
// stamps joined by an underscore, as in tas_2000-01_2000-12.nc, form one
// range stamp whose first date sets Year, Month and Day.
func ParseFile(path string, markers ...string) (File, error) {
	name := filepath.Base(path)
	locs := stampRegexp.FindAllStringIndex(name, -1)
	if len(locs) == 0 {
		return File{}, errors.NewPatternNotFoundError(name, StampPattern)
	}
	n := len(locs)
	start, end := locs[n-1][0], locs[n-1][1]
	if n > 1 && name[locs[n-2][1]:start] == rangeSeparator {
		start = locs[n-2][0]
	}

	f := File{
		Path:   path,
		Name:   name,
		Prefix: strings.TrimRight(name[:start], "._-"),
		Stamp:  name[start:end],
		Suffix: name[end:],
	}
	parts := strings.Split(stampRegexp.FindString(f.Stamp), "-")
	f.Year, _ = strconv.Atoi(parts[0])
	f.Month, _ = strconv.Atoi(parts[1])
	if len(parts) == 3 {
		f.Day, _ = strconv.Atoi(parts[2])
	}

	suffix := f.Suffix
	for _, m := range markers {
		if m != "" {
			suffix = strings.Replace(suffix, m, "", 1)
		}
	}
	f.key = f.Stamp + suffix
	return f, nil
}

// SortKey is the chronological ordering key: the date stamp and everything
// after it, with derived-file markers removed.
func (f File) SortKey() string {
	if f.key == "" {
		return f.Stamp + f.Suffix
	}
	return f.key
}

// Compare orders files by sort key, then by name so that two streams
// sharing a date stamp order deterministically.
func Compare(a, b File) int {
	if c := cmp.Compare(a.SortKey(), b.SortKey()); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
