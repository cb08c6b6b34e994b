// Package constants provides shared constants used throughout the timeaxis
// codebase: worker pool sizing, file permissions, variable name candidates
// and the naming of derived files.
package constants

// Worker pool constants
const (
	// DefaultJobs is the default number of parallel workers per phase
	DefaultJobs = 6

	// MaxJobs caps the worker pool size
	MaxJobs = 256
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Derived file naming
const (
	// TruncSuffix marks a file whose time dimension was truncated.
	// It is inserted between the original stem and extension.
	TruncSuffix = ".trunc"

	// TempPattern is the os.CreateTemp pattern for in-progress writes.
	TempPattern = ".timeaxis-*.tmp"
)

// Time axis variable and attribute names
var (
	// TimeVarCandidates are the accepted names of the time coordinate
	TimeVarCandidates = []string{"time", "Time"}

	// BoundsVarCandidates are the accepted names of the time bounds variable
	BoundsVarCandidates = []string{"time_bnds", "time_bounds"}
)

const (
	// FreqAttribute is the global attribute carrying the output frequency
	FreqAttribute = "time_period_freq"

	// HistoryAttribute is the global provenance attribute
	HistoryAttribute = "history"

	// UnitsAttribute is the time variable attribute holding CF units
	UnitsAttribute = "units"

	// CalendarAttribute is the time variable attribute naming the calendar
	CalendarAttribute = "calendar"
)

// Environment variables read outside the viper config tree
const (
	// UnitsOutEnv names a file that receives the units correction line
	UnitsOutEnv = "TIMEAXIS_UNITS_OUT"

	// EnvPrefix is the viper environment prefix
	EnvPrefix = "TIMEAXIS"
)
