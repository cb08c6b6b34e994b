// Package calendar holds the closed set of model calendars the engine can
// reason about, and the Frequency value that describes the expected spacing
// of a time axis.
package calendar

import (
	"strings"

	"github.com/agentstation/timeaxis/pkg/errors"
)

// Calendar is a supported model calendar.
type Calendar int

const (
	// Unknown is the zero value and never returned by Lookup.
	Unknown Calendar = iota
	// NoLeap is the 365 day calendar with a fixed February of 28 days.
	NoLeap
)

// noLeapDays is the days-per-month table of the NoLeap calendar.
var noLeapDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// aliases maps CF calendar names onto the enumeration.
var aliases = map[string]Calendar{
	"noleap":  NoLeap,
	"no_leap": NoLeap,
	"365_day": NoLeap,
}

// Lookup returns the calendar for a CF calendar name. Unknown names yield an
// *errors.UnsupportedCalendarError.
func Lookup(name string) (Calendar, error) {
	if c, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return Unknown, errors.NewUnsupportedCalendarError(name)
}

// String returns the canonical CF name.
func (c Calendar) String() string {
	switch c {
	case NoLeap:
		return "noleap"
	default:
		return "unknown"
	}
}

// DaysPerMonth returns the 12 month table.
func (c Calendar) DaysPerMonth() [12]int {
	switch c {
	case NoLeap:
		return noLeapDays
	default:
		return [12]int{}
	}
}

// DaysInMonth returns the length of month (1..12). Out of range months wrap.
func (c Calendar) DaysInMonth(month int) int {
	table := c.DaysPerMonth()
	return table[((month-1)%12+12)%12]
}

// DaysInYear returns the number of days in one calendar year.
func (c Calendar) DaysInYear() int {
	total := 0
	for _, d := range c.DaysPerMonth() {
		total += d
	}
	return total
}

// DayNumber returns the number of days from 0000-01-01 to the given date.
func (c Calendar) DayNumber(year, month, day int) int {
	table := c.DaysPerMonth()
	n := year * c.DaysInYear()
	for m := 0; m < month-1 && m < 12; m++ {
		n += table[m]
	}
	return n + day - 1
}
