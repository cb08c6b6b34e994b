// Package units detects files whose CF time units disagree with the rest of
// a set and emits the correction line consumed by automated repair:
//
//	correct_units=<units>,offset=<value>
package units

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/timeaxis/pkg/calendar"
	"github.com/agentstation/timeaxis/pkg/errors"
)

// Unit is a CF time unit.
type Unit string

const (
	Days    Unit = "days"
	Hours   Unit = "hours"
	Minutes Unit = "minutes"
	Seconds Unit = "seconds"
)

var unitNames = map[string]Unit{
	"days": Days, "day": Days, "d": Days,
	"hours": Hours, "hour": Hours, "hr": Hours, "hrs": Hours, "h": Hours,
	"minutes": Minutes, "minute": Minutes, "min": Minutes, "mins": Minutes,
	"seconds": Seconds, "second": Seconds, "sec": Seconds, "secs": Seconds, "s": Seconds,
}

// Seconds returns the length of one u in seconds.
func (u Unit) Seconds() float64 {
	switch u {
	case Days:
		return 86400
	case Hours:
		return 3600
	case Minutes:
		return 60
	default:
		return 1
	}
}

// Units is a parsed "<unit> since <reference>" string.
type Units struct {
	Raw    string
	Unit   Unit
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64
}

// Parse parses a CF time units string such as
// "days since 0001-01-01 00:00:00" or "hours since 2000-01-01T06:00:00Z".
func Parse(s string) (Units, error) {
	fail := func(msg string) (Units, error) {
		return Units{}, errors.NewParseError("units", "", fmt.Sprintf("%s in %q", msg, s), nil)
	}

	unitPart, ref, ok := strings.Cut(strings.TrimSpace(s), " since ")
	if !ok {
		return fail("missing \"since\"")
	}
	u, ok := unitNames[strings.ToLower(strings.TrimSpace(unitPart))]
	if !ok {
		return fail("unknown unit " + strconv.Quote(unitPart))
	}

	ref = strings.TrimSpace(ref)
	ref = strings.TrimSuffix(ref, "UTC")
	ref = strings.TrimSuffix(strings.TrimSpace(ref), "Z")
	ref = strings.Replace(ref, "T", " ", 1)
	datePart, clockPart, _ := strings.Cut(strings.TrimSpace(ref), " ")

	out := Units{Raw: s, Unit: u}
	ymd := strings.Split(datePart, "-")
	if len(ymd) != 3 {
		return fail("malformed reference date")
	}
	var err error
	if out.Year, err = strconv.Atoi(ymd[0]); err != nil {
		return fail("malformed year")
	}
	if out.Month, err = strconv.Atoi(ymd[1]); err != nil || out.Month < 1 || out.Month > 12 {
		return fail("malformed month")
	}
	if out.Day, err = strconv.Atoi(ymd[2]); err != nil || out.Day < 1 || out.Day > 31 {
		return fail("malformed day")
	}

	if clockPart = strings.TrimSpace(clockPart); clockPart != "" {
		hms := strings.Split(clockPart, ":")
		if len(hms) < 2 || len(hms) > 3 {
			return fail("malformed reference time")
		}
		if out.Hour, err = strconv.Atoi(hms[0]); err != nil {
			return fail("malformed hour")
		}
		if out.Minute, err = strconv.Atoi(hms[1]); err != nil {
			return fail("malformed minute")
		}
		if len(hms) == 3 {
			if out.Second, err = strconv.ParseFloat(hms[2], 64); err != nil {
				return fail("malformed second")
			}
		}
	}
	return out, nil
}

// String returns the original units string.
func (u Units) String() string {
	return u.Raw
}

// referenceSeconds returns the reference instant in seconds from an
// arbitrary epoch. The no-leap calendar is counted with its own table;
// every other calendar is treated as proleptic Gregorian.
func (u Units) referenceSeconds(calendarName string) float64 {
	clock := float64(u.Hour*3600+u.Minute*60) + u.Second
	if cal, err := calendar.Lookup(calendarName); err == nil {
		return float64(cal.DayNumber(u.Year, u.Month, u.Day))*86400 + clock
	}
	t := time.Date(u.Year, time.Month(u.Month), u.Day, 0, 0, 0, 0, time.UTC)
	return float64(t.Unix()) + clock
}

// Offset returns the value to add to times expressed relative to other's
// reference to express them relative to u's reference, in u's unit.
func (u Units) Offset(other Units, calendarName string) float64 {
	return (other.referenceSeconds(calendarName) - u.referenceSeconds(calendarName)) / u.Unit.Seconds()
}
