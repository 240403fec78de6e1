package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"macrolens/domain/core"
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

// Wrap adds message to err, keeping the code of any AppError in its chain
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: codeOr(err, CodeInternalError), Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode replaces the code of err
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{Code: code, Message: appErr.Message, Cause: appErr.Cause}
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

func codeOr(err error, fallback string) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return fallback
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the first AppError in err's chain, or "UNKNOWN"
func GetCode(err error) string {
	return codeOr(err, "UNKNOWN")
}

// Classify maps an error to its HTTP status and wire code. Domain sentinels
// take precedence over AppError codes.
func Classify(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case stderrors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound, CodeSessionNotFound
	case stderrors.Is(err, core.ErrUnknownCountry):
		return http.StatusNotFound, CodeUnknownCountry
	case stderrors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case stderrors.Is(err, core.ErrNoActiveClustering):
		return http.StatusConflict, CodeNoActiveClustering
	case stderrors.Is(err, core.ErrUnassignedCountry):
		return http.StatusConflict, CodeUnassignedCountry
	case stderrors.Is(err, core.ErrInsufficientData):
		return http.StatusUnprocessableEntity, CodeInsufficientData
	case stderrors.Is(err, core.ErrMalformedObservation):
		return http.StatusUnprocessableEntity, CodeMalformedObservation
	case stderrors.Is(err, core.ErrInvalidClusterConfig):
		return http.StatusBadRequest, CodeInvalidClusterConfig
	case stderrors.Is(err, core.ErrInvalidYearRange):
		return http.StatusBadRequest, CodeInvalidYearRange
	case stderrors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	}

	switch code := GetCode(err); code {
	case CodeConfigInvalid, CodeValidationError, CodeInvalidInput:
		return http.StatusBadRequest, code
	case CodeNotFound:
		return http.StatusNotFound, code
	case CodeDatabaseError, CodeExternalService:
		return http.StatusBadGateway, code
	}
	return http.StatusInternalServerError, CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"

	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeUnknownCountry       = "UNKNOWN_COUNTRY"
	CodeNoActiveClustering   = "NO_ACTIVE_CLUSTERING"
	CodeUnassignedCountry    = "UNASSIGNED_COUNTRY"
	CodeInsufficientData     = "INSUFFICIENT_DATA"
	CodeMalformedObservation = "MALFORMED_OBSERVATION"
	CodeInvalidClusterConfig = "INVALID_CLUSTER_CONFIG"
	CodeInvalidYearRange     = "INVALID_YEAR_RANGE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}


