package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrUnknownCountry  = fmt.Errorf("%w: country", ErrNotFound)

	// Validation errors
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidYearRange     = fmt.Errorf("%w: year range", ErrInvalidInput)
	ErrInvalidClusterConfig = errors.New("invalid cluster configuration")
	ErrMalformedObservation = errors.New("malformed observation")
	ErrInsufficientData     = errors.New("insufficient data for analysis")

	// Peer resolution errors
	ErrNoActiveClustering = errors.New("no active clustering run")
	ErrUnassignedCountry  = errors.New("country has no cluster assignment")
)

// Error constructors with context
func NewUnknownCountryError(country string) error {
	return fmt.Errorf("%w %q", ErrUnknownCountry, country)
}

func NewUnassignedCountryError(country string) error {
	return fmt.Errorf("%w: %q", ErrUnassignedCountry, country)
}

func NewClusterConfigError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidClusterConfig, reason)
}

func NewInsufficientDataError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, fmt.Sprintf(format, args...))
}

func NewMalformedObservationError(row int, field, reason string) error {
	if row > 0 {
		return fmt.Errorf("%w at row %d: %s %s", ErrMalformedObservation, row, field, reason)
	}
	return fmt.Errorf("%w: %s %s", ErrMalformedObservation, field, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidClusterConfig)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrMalformedObservation) ||
		errors.Is(err, ErrInsufficientData)
}

func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrNoActiveClustering) ||
		errors.Is(err, ErrUnassignedCountry)
}
