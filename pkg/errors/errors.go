// Package errors defines the sentinel errors shared across the dlxr
// subsystems together with small wrapping helpers. Errors are grouped by
// their domain so call sites can match with errors.Is.
package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")

	// Download errors.
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrChecksumMismatch = fmt.Errorf("checksum mismatch")

	// Binary resolution errors.
	ErrBinaryNotFound = fmt.Errorf("binary not found")

	// Path and filesystem errors.
	ErrInvalidPath = fmt.Errorf("invalid path")
	ErrEmptyPaths  = fmt.Errorf("source and destination paths cannot be empty")

	// Cache errors.
	ErrCacheDirEmpty = fmt.Errorf("cache directory cannot be empty")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")

	// Validation errors.
	ErrValidation = fmt.Errorf("validation failed")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
