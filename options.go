package timeaxis

import (
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/timeaxis/pkg/axis"
	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
	"github.com/agentstation/timeaxis/pkg/ncfile"
)

// Option is a function that configures an Engine instance
type Option func(*config) error

// config holds the explicit settings of one Engine. Nothing is read from
// package level state, so engines in one process never share settings.
type config struct {
	jobs      int
	copyFiles bool
	suffix    string
	extension string
	opener    axis.Opener
	truncator axis.Truncator
	logger    *zerolog.Logger
	now       func() utc.Time
}

func defaultConfig() *config {
	return &config{
		jobs:      constants.DefaultJobs,
		suffix:    constants.TruncSuffix,
		extension: ".nc",
		opener:    ncfile.Opener{},
		truncator: ncfile.Truncator{},
		now:       utc.Now,
	}
}

// WithJobs sets the worker count of every parallel phase.
func WithJobs(n int) Option {
	return func(c *config) error {
		if n < 1 || n > constants.MaxJobs {
			return errors.NewValidationError("jobs", n, "must be between 1 and 256")
		}
		c.jobs = n
		return nil
	}
}

// WithCopy configures whether repair copies passthrough files instead of
// symlinking them.
func WithCopy(enabled bool) Option {
	return func(c *config) error {
		c.copyFiles = enabled
		return nil
	}
}

// WithTruncSuffix sets the marker inserted into truncated output names.
func WithTruncSuffix(suffix string) Option {
	return func(c *config) error {
		if suffix == "" {
			return errors.NewValidationError("trunc_suffix", suffix, "must not be empty")
		}
		c.suffix = suffix
		return nil
	}
}

// WithExtension restricts directory scans to names with ext. An empty ext
// scans every regular file.
func WithExtension(ext string) Option {
	return func(c *config) error {
		c.extension = ext
		return nil
	}
}

// WithOpener replaces the NetCDF reader, typically with an in-memory fake.
func WithOpener(o axis.Opener) Option {
	return func(c *config) error {
		c.opener = o
		return nil
	}
}

// WithTruncator replaces the NetCDF writer.
func WithTruncator(t axis.Truncator) Option {
	return func(c *config) error {
		c.truncator = t
		return nil
	}
}

// WithLogger sets the logger used by every phase.
func WithLogger(l *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithClock sets the time source of history attributes.
func WithClock(now func() utc.Time) Option {
	return func(c *config) error {
		c.now = now
		return nil
	}
}
