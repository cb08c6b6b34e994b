// Package errors provides custom error types for the timeaxis system.
// These errors enable programmatic error checking and separate the fatal
// conditions that abort a run from the per-file problems that are only
// reported.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Common sentinel errors for the timeaxis system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrPatternNotFound indicates a filename without a date stamp
	ErrPatternNotFound = errors.New("date stamp pattern not found")

	// ErrAxisNotFound indicates a file without a time axis or bounds variable
	ErrAxisNotFound = errors.New("time axis not found")

	// ErrUnsupportedCalendar indicates a calendar name with no days-per-month table
	ErrUnsupportedCalendar = errors.New("unsupported calendar")

	// ErrNoData indicates a time axis of length zero
	ErrNoData = errors.New("no data")

	// ErrCheckFailed indicates that a validation run found issues.
	// Commands return it to drive a non-zero exit status without
	// printing anything further.
	ErrCheckFailed = errors.New("check failed")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// PatternNotFoundError is returned when a filename carries no date stamp.
type PatternNotFoundError struct {
	Name    string
	Pattern string
}

// Error implements the error interface
func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("unable to find pattern %s in %s", e.Pattern, e.Name)
}

// Is implements errors.Is support
func (e *PatternNotFoundError) Is(target error) bool {
	return target == ErrPatternNotFound
}

// NewPatternNotFoundError creates a new PatternNotFoundError
func NewPatternNotFoundError(name, pattern string) *PatternNotFoundError {
	return &PatternNotFoundError{Name: name, Pattern: pattern}
}

// AxisNotFoundError is returned when none of the candidate variable names
// for the time axis or its bounds exist in a file.
type AxisNotFoundError struct {
	Path       string
	Candidates []string
}

// Error implements the error interface
func (e *AxisNotFoundError) Error() string {
	return fmt.Sprintf("none of [%s] found in %s", strings.Join(e.Candidates, ", "), e.Path)
}

// Is implements errors.Is support
func (e *AxisNotFoundError) Is(target error) bool {
	return target == ErrAxisNotFound
}

// NewAxisNotFoundError creates a new AxisNotFoundError
func NewAxisNotFoundError(path string, candidates ...string) *AxisNotFoundError {
	return &AxisNotFoundError{Path: path, Candidates: candidates}
}

// UnsupportedCalendarError is returned for a calendar with no known table.
type UnsupportedCalendarError struct {
	Name string
}

// Error implements the error interface
func (e *UnsupportedCalendarError) Error() string {
	return fmt.Sprintf("unsupported calendar %q", e.Name)
}

// Is implements errors.Is support
func (e *UnsupportedCalendarError) Is(target error) bool {
	return target == ErrUnsupportedCalendar
}

// NewUnsupportedCalendarError creates a new UnsupportedCalendarError
func NewUnsupportedCalendarError(name string) *UnsupportedCalendarError {
	return &UnsupportedCalendarError{Name: name}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "units", "yaml", "netcdf", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "link", "copy", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCheckFailed checks if an error only signals a failed validation run
func IsCheckFailed(err error) bool {
	return errors.Is(err, ErrCheckFailed)
}

// IsFatal reports whether err must abort a run before any parallel phase
// starts: a filename without a date stamp, a file without a time axis, or
// an unsupported calendar.
func IsFatal(err error) bool {
	return errors.Is(err, ErrPatternNotFound) ||
		errors.Is(err, ErrAxisNotFound) ||
		errors.Is(err, ErrUnsupportedCalendar)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
