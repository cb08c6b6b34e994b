// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output. They prefix progress and summary lines
// written to stderr so that stdout stays machine readable.
const (
	// Success represents successful completion of an operation.
	// Used for: written files, passing checks.
	Success = "✓"

	// Error represents failures.
	// Used for: files that could not be written, failed checks.
	Error = "✗"

	// Warning represents warnings or non-critical issues.
	// Used for: unmatched cuts, overlaps left in an output directory.
	Warning = "!"

	// Optional represents skipped work.
	// Used for: superseded files left out of the output.
	Optional = "-"

	// Info represents informational messages.
	// Used for: phase headers, segment summaries.
	Info = "i"
)
