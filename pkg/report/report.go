// Package report holds the outcome of a validation run: an ordered list of
// issues and the pass/fail result derived from it.
package report

import (
	"fmt"
	"io"
	"strconv"
)

// Kind classifies an issue.
type Kind string

const (
	// KindDiscontinuity is a step whose delta differs from the frequency.
	KindDiscontinuity Kind = "discontinuity"
	// KindEmpty is a file whose time axis has no steps.
	KindEmpty Kind = "empty"
	// KindUnreadable is a file whose time axis could not be read.
	KindUnreadable Kind = "unreadable"
)

// Outcomes.
const (
	Pass = "Pass"
	Fail = "Fail"
)

// Issue is one reported problem.
type Issue struct {
	File     string  `json:"file" yaml:"file"`
	Kind     Kind    `json:"kind" yaml:"kind"`
	At       float64 `json:"at" yaml:"at"`
	Delta    float64 `json:"delta" yaml:"delta"`
	Expected float64 `json:"expected" yaml:"expected"`
	Message  string  `json:"message" yaml:"message"`
}

// Report is the result of checking one dataset directory.
type Report struct {
	Dataset   string  `json:"dataset" yaml:"dataset"`
	Frequency string  `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Files     int     `json:"files" yaml:"files"`
	Result    string  `json:"result" yaml:"result"`
	Issues    []Issue `json:"issues" yaml:"issues"`
}

// New returns a passing report for dataset.
func New(dataset string) *Report {
	return &Report{Dataset: dataset, Result: Pass, Issues: []Issue{}}
}

// Add appends an issue and marks the report failed.
func (r *Report) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	r.Result = Fail
}

// Discontinuity records a step at value at whose delta differs from expected.
func (r *Report) Discontinuity(file string, at, delta, expected float64) {
	r.Add(Issue{
		File:     file,
		Kind:     KindDiscontinuity,
		At:       at,
		Delta:    delta,
		Expected: expected,
		Message: fmt.Sprintf("time discontinuity in %s at %s, delta was %s when it should have been %s",
			file, FormatValue(at), FormatValue(delta), FormatValue(expected)),
	})
}

// Empty records a file without time steps.
func (r *Report) Empty(file string) {
	r.Add(Issue{
		File:    file,
		Kind:    KindEmpty,
		Message: fmt.Sprintf("no time steps in %s", file),
	})
}

// Unreadable records a file whose axis could not be read.
func (r *Report) Unreadable(file string, err error) {
	r.Add(Issue{
		File:    file,
		Kind:    KindUnreadable,
		Message: fmt.Sprintf("unable to read time axis of %s: %v", file, err),
	})
}

// Passed reports whether no issue was recorded.
func (r *Report) Passed() bool {
	return len(r.Issues) == 0
}

// Outcome returns Pass or Fail.
func (r *Report) Outcome() string {
	if r.Passed() {
		return Pass
	}
	return Fail
}

// ResultLine returns the final status line.
func (r *Report) ResultLine() string {
	return fmt.Sprintf("Result=%s:dataset=%s", r.Outcome(), r.Dataset)
}

// WriteText writes one line per issue followed by the result line. When
// quiet is set only the result line is written.
func (r *Report) WriteText(w io.Writer, quiet bool) error {
	if !quiet {
		for _, issue := range r.Issues {
			if _, err := fmt.Fprintln(w, issue.Message); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, r.ResultLine())
	return err
}

// FormatValue renders a time value with the fewest digits that round trip.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
