package calendar

import (
	"fmt"
	"math"
	"strings"
)

// Kind distinguishes fixed from calendar driven spacing.
type Kind int

const (
	// KindFixed is a constant numeric delta (sub-monthly output).
	KindFixed Kind = iota
	// KindMonthly is one step per calendar month.
	KindMonthly
)

// Frequency is the expected step between consecutive time values. A run has
// exactly one Frequency, determined from its first files.
type Frequency struct {
	Kind     Kind
	Delta    float64
	Calendar Calendar
}

// Fixed returns a sub-monthly frequency with a constant delta.
func Fixed(delta float64) Frequency {
	return Frequency{Kind: KindFixed, Delta: delta}
}

// Monthly returns a frequency of one step per month of c.
func Monthly(c Calendar) Frequency {
	return Frequency{Kind: KindMonthly, Calendar: c}
}

// IsMonthly reports whether steps follow the calendar months.
func (f Frequency) IsMonthly() bool {
	return f.Kind == KindMonthly
}

// Interval returns the expected delta leading into a step that falls in
// month (1..12). For fixed frequencies the month is ignored.
func (f Frequency) Interval(month int) float64 {
	if f.IsMonthly() {
		return float64(f.Calendar.DaysInMonth(month))
	}
	return f.Delta
}

// Matches reports whether delta equals the expected interval within a
// relative tolerance that absorbs float accumulation in sub-daily axes.
func (f Frequency) Matches(delta float64, month int) bool {
	want := f.Interval(month)
	tol := 1e-6 * math.Max(1, math.Abs(want))
	return math.Abs(delta-want) <= tol
}

// String describes the frequency.
func (f Frequency) String() string {
	if f.IsMonthly() {
		return "monthly(" + f.Calendar.String() + ")"
	}
	return fmt.Sprintf("fixed(%g)", f.Delta)
}

// IsMonthlyTag reports whether a time_period_freq attribute value denotes
// monthly output.
func IsMonthlyTag(tag string) bool {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "month_1", "mon", "monthly", "1mon", "month":
		return true
	default:
		return false
	}
}
