package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"

	// Command line errors
	ErrUsage ErrorCode = "USAGE"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// External tool errors
	ErrToolMissing     ErrorCode = "TOOL_MISSING"
	ErrToolInvocation  ErrorCode = "TOOL_INVOCATION"
	ErrToolOutputParse ErrorCode = "TOOL_OUTPUT_PARSE"

	// Check errors
	ErrRuleEvaluation  ErrorCode = "RULE_EVALUATION"
	ErrCheckFailed     ErrorCode = "CHECK_FAILED"
	ErrResourceCleanup ErrorCode = "RESOURCE_CLEANUP"

	// Verdict errors
	ErrBlocked ErrorCode = "BLOCKED"
)

// PresubmitError represents a structured error with code and details
type PresubmitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PresubmitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PresubmitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PresubmitError) Is(target error) bool {
	var targetErr *PresubmitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PresubmitError with the given code and message
func New(code ErrorCode, message string) *PresubmitError {
	return &PresubmitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PresubmitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PresubmitError {
	return &PresubmitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PresubmitError
func Wrap(err error, code ErrorCode, message string) *PresubmitError {
	if err == nil {
		return nil
	}
	return &PresubmitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PresubmitError {
	if err == nil {
		return nil
	}
	return &PresubmitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PresubmitError) WithDetail(key string, value interface{}) *PresubmitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pErr *PresubmitError
	if errors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PresubmitError
func GetErrorCode(err error) ErrorCode {
	var pErr *PresubmitError
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PresubmitError
func GetErrorDetails(err error) map[string]interface{} {
	var pErr *PresubmitError
	if errors.As(err, &pErr) {
		return pErr.Details
	}
	return nil
}

// ExitCode maps an error to a process exit status.
// Usage errors exit with 2, everything else with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if IsErrorCode(err, ErrUsage) {
		return 2
	}
	return 1
}
