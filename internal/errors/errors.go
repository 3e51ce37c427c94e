package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for the searcher
type ErrorType string

const (
	// Startup errors, fatal to the whole run
	ErrorTypePattern ErrorType = "pattern"
	ErrorTypeConfig  ErrorType = "config"

	// Per-path errors, reported and skipped
	ErrorTypeTraversal  ErrorType = "traversal"
	ErrorTypeFileAccess ErrorType = "file_access"
	ErrorTypeDecoding   ErrorType = "decoding"
)

// Operations recorded on per-path errors
const (
	OpOpen  = "open"
	OpEntry = "entry"
	OpMap   = "map"
)

// PatternError reports a filename or content pattern that failed to compile.
type PatternError struct {
	Type       ErrorType
	Kind       string // "filename" or "content"
	Pattern    string
	Underlying error
	Timestamp  time.Time
}

// NewPatternError creates a new pattern error
func NewPatternError(kind, pattern string, err error) *PatternError {
	return &PatternError{
		Type:       ErrorTypePattern,
		Kind:       kind,
		Pattern:    pattern,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Kind, e.Pattern, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *PatternError) Unwrap() error {
	return e.Underlying
}

// TraversalError reports a directory that could not be listed, or an entry
// inside it that could not be read.
type TraversalError struct {
	Type       ErrorType
	Op         string
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewTraversalError creates a new traversal error
func NewTraversalError(op, path string, err error) *TraversalError {
	return &TraversalError{
		Type:       ErrorTypeTraversal,
		Op:         op,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error renders the user-visible diagnostic line
func (e *TraversalError) Error() string {
	if e.Op == OpEntry {
		return fmt.Sprintf("Error reading entry in '%s': %v", e.Path, cause(e.Underlying))
	}
	return fmt.Sprintf("Error occurred for directory '%s': %v", e.Path, cause(e.Underlying))
}

// Unwrap returns the underlying error
func (e *TraversalError) Unwrap() error {
	return e.Underlying
}

// FileAccessError reports a file that could not be opened or mapped.
type FileAccessError struct {
	Type       ErrorType
	Op         string
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewFileAccessError creates a new file access error
func NewFileAccessError(op, path string, err error) *FileAccessError {
	return &FileAccessError{
		Type:       ErrorTypeFileAccess,
		Op:         op,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error renders the user-visible diagnostic line
func (e *FileAccessError) Error() string {
	if e.Op == OpMap {
		return fmt.Sprintf("Error mapping file '%s': %v", e.Path, cause(e.Underlying))
	}
	return fmt.Sprintf("Error occurred for file '%s': %v", e.Path, cause(e.Underlying))
}

// Unwrap returns the underlying error
func (e *FileAccessError) Unwrap() error {
	return e.Underlying
}

// ErrInvalidUTF8 is the underlying cause of every DecodingError
var ErrInvalidUTF8 = stderrors.New("invalid utf-8 sequence")

// DecodingError reports a file whose contents are not valid UTF-8 text.
type DecodingError struct {
	Type      ErrorType
	Path      string
	Offset    int // byte offset of the first invalid sequence
	Timestamp time.Time
}

// NewDecodingError creates a new decoding error
func NewDecodingError(path string, offset int) *DecodingError {
	return &DecodingError{
		Type:      ErrorTypeDecoding,
		Path:      path,
		Offset:    offset,
		Timestamp: time.Now(),
	}
}

// Error renders the user-visible diagnostic line
func (e *DecodingError) Error() string {
	return fmt.Sprintf("Error reading file '%s': %v at byte offset %d", e.Path, ErrInvalidUTF8, e.Offset)
}

// Unwrap returns ErrInvalidUTF8
func (e *DecodingError) Unwrap() error {
	return ErrInvalidUTF8
}

// ConfigError represents a configuration error
type ConfigError struct {
	Type       ErrorType
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Type:       ErrorTypeConfig,
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// IsRecoverable reports whether err only affects a single path. Pattern and
// config errors are fatal; everything else is reported and skipped.
func IsRecoverable(err error) bool {
	var (
		traversal  *TraversalError
		fileAccess *FileAccessError
		decoding   *DecodingError
	)
	return stderrors.As(err, &traversal) || stderrors.As(err, &fileAccess) || stderrors.As(err, &decoding)
}

// cause strips the *fs.PathError wrapper so the path is not printed twice.
func cause(err error) error {
	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
