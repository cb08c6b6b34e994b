package axis

import (
	"strings"

	"github.com/agentstation/timeaxis/pkg/calendar"
	"github.com/agentstation/timeaxis/pkg/errors"
)

// DetectFrequency determines the run's step frequency from its first two
// files. A monthly time_period_freq attribute selects the calendar table of
// the time variable's calendar, which must be supported. Otherwise the
// delta between the first two time values is used, reaching into the second
// file when the first holds a single step.
func DetectFrequency(first, second *Info) (calendar.Frequency, error) {
	if first == nil {
		return calendar.Frequency{}, errors.NewValidationError("files", 0, "no files to detect a frequency from")
	}

	if strings.TrimSpace(first.Freq) != "" && calendar.IsMonthlyTag(first.Freq) {
		cal, err := calendar.Lookup(first.Calendar)
		if err != nil {
			return calendar.Frequency{}, err
		}
		return calendar.Monthly(cal), nil
	}

	var delta float64
	switch {
	case len(first.Times) >= 2:
		delta = first.Times[1] - first.Times[0]
	case len(first.Times) == 1 && second != nil && len(second.Times) > 0:
		delta = second.Times[0] - first.Times[0]
	default:
		return calendar.Frequency{}, errors.NewValidationError("time", first.Name(),
			"need two time values to derive a delta")
	}
	if delta <= 0 {
		return calendar.Frequency{}, errors.NewValidationError("time", delta,
			"time values do not increase in "+first.Name())
	}
	return calendar.Fixed(delta), nil
}
