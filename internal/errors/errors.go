package errors

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code of the first AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any AppError in the chain carries code
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		if merr, ok := err.(*multierror.Error); ok {
			for _, e := range merr.Errors {
				if HasCode(e, code) {
					return true
				}
			}
			return false
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Collector accumulates validation failures so all of them are reported together
type Collector struct {
	errs *multierror.Error
}

// Add records err if it is non-nil
func (c *Collector) Add(err error) {
	if err != nil {
		c.errs = multierror.Append(c.errs, err)
	}
}

// Addf records a formatted error with the given code
func (c *Collector) Addf(code, format string, args ...interface{}) {
	c.Add(New(code, fmt.Sprintf(format, args...)))
}

// ErrorOrNil returns the aggregated error, or nil when nothing was recorded
func (c *Collector) ErrorOrNil() error {
	return c.errs.ErrorOrNil()
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeSampleTooSmall   = "SAMPLE_TOO_SMALL"
	CodeDegenerate       = "DEGENERATE_SAMPLE"
	CodeIOError          = "IO_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(format string, args ...interface{}) *AppError {
	return New(CodeConfigInvalid, fmt.Sprintf(format, args...))
}

func InvalidParameter(name string, value interface{}, domain string) *AppError {
	return New(CodeInvalidParameter, fmt.Sprintf("%s=%v outside domain %s", name, value, domain))
}

func SampleTooSmall(operation string, size, required int) *AppError {
	return New(CodeSampleTooSmall, fmt.Sprintf("%s needs at least %d values, got %d", operation, required, size))
}

func Degenerate(operation string) *AppError {
	return New(CodeDegenerate, fmt.Sprintf("%s undefined for a sample with zero variance", operation))
}

func IOError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeIOError,
		Message: message,
		Cause:   cause,
	}
}
