package errors

import (
	"fmt"

	"gocpd/domain/core"
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

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
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

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeBadRequest              = "BAD_REQUEST"
	CodeConfigInvalid           = "CONFIG_INVALID"
	CodeDatabaseError           = "DATABASE_ERROR"
	CodeModelSyntax             = "MODEL_SYNTAX"
	CodeModelArity              = "MODEL_ARITY"
	CodeModelUnderspecified     = "MODEL_UNDERSPECIFIED"
	CodeUnsupportedDistribution = "UNSUPPORTED_DISTRIBUTION"
	CodeInvocationInvalid       = "INVOCATION_INVALID"
	CodeSeriesInvalid           = "SERIES_INVALID"
	CodeNotFound                = "NOT_FOUND"
	CodeInternalError           = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// FromDomain classifies a domain error under its taxonomy code so
// transport layers can map it without string matching
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	code := CodeInternalError
	switch {
	case core.IsSyntaxError(err):
		code = CodeModelSyntax
	case core.IsArityError(err):
		code = CodeModelArity
	case core.IsUnderspecifiedError(err):
		code = CodeModelUnderspecified
	case core.IsUnsupportedDistributionError(err):
		code = CodeUnsupportedDistribution
	case core.IsSeriesError(err):
		code = CodeSeriesInvalid
	case core.IsInvocationError(err):
		code = CodeInvocationInvalid
	case core.IsNotFoundError(err):
		code = CodeNotFound
	case core.IsDatabaseError(err):
		code = CodeDatabaseError
	case core.IsConfigError(err):
		code = CodeConfigInvalid
	}

	return &AppError{Code: code, Message: err.Error(), Cause: err}
}
