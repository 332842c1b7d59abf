package errors

import (
	"fmt"
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
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeBackendError     = "BACKEND_ERROR"
	CodeLoadFailed       = "LOAD_FAILED"
	CodePredictionFailed = "PREDICTION_FAILED"
	CodeAuthFailed       = "AUTH_FAILED"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeSessionError     = "SESSION_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AuthFailed(message string) *AppError {
	return New(CodeAuthFailed, message)
}

func SessionError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeSessionError,
		Message: message,
		Cause:   cause,
	}
}

// BackendError marks a failure of the external inference service.
func BackendError(operation string, cause error) *AppError {
	return &AppError{
		Code:    CodeBackendError,
		Message: fmt.Sprintf("backend %s failed", operation),
		Cause:   cause,
	}
}

// LoadFailed marks a hard load failure: the bulk load could not produce even
// a minimal usable state.
func LoadFailed(cause error) *AppError {
	return &AppError{
		Code:    CodeLoadFailed,
		Message: "evaluation data load failed",
		Cause:   cause,
	}
}

// PredictionFailed marks a failed predict operation. Predictions are never
// retried automatically.
func PredictionFailed(cause error) *AppError {
	return &AppError{
		Code:    CodePredictionFailed,
		Message: "prediction failed",
		Cause:   cause,
	}
}
