package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a failure with a structured error code.
//
// Codes have the form SD-<AREA>-<NNNN>. Two DomainErrors match under
// errors.Is when their codes are equal, so callers compare against the
// sentinels below regardless of details or cause.
type DomainError struct {
	Code    string // Error code (e.g., "SD-FS-5001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// Wrapf is Wrap with formatted details.
func (e *DomainError) Wrapf(cause error, format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...)).WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Filesystem Errors (FS)
// ============================================================================

var (
	// ErrFilesystem indicates a missing file, permission denial or disk
	// exhaustion while reading or writing a dump directory.
	ErrFilesystem = NewDomainError("SD-FS-5001", "filesystem error")
)

// ============================================================================
// Data Errors (DATA)
// ============================================================================

var (
	// ErrMalformed indicates a truncated or inconsistent column record, or a
	// roots encoding that does not decode to a whole number of hashes.
	ErrMalformed = NewDomainError("SD-DATA-4001", "malformed dump data")
)

// ============================================================================
// Store Errors (STORE)
// ============================================================================

var (
	// ErrStoreOpen indicates backend misconfiguration or corruption at open time.
	ErrStoreOpen = NewDomainError("SD-STORE-5002", "store open failed")

	// ErrStoreAccess indicates a read or write failure on an open store.
	ErrStoreAccess = NewDomainError("SD-STORE-5003", "store access failed")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidRoot indicates a state root that is not 64 hex characters.
	ErrInvalidRoot = NewDomainError("SD-ARG-4002", "invalid state root")
)
