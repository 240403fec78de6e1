package ports

import (
	"context"

	"macrolens/domain/macro"
)

// ObservationSource loads the base long-format dataset. It is read once at
// startup and treated as read-only afterwards.
type ObservationSource interface {
	LoadObservations(ctx context.Context) ([]macro.Observation, error)

	// Describe names the source for logs, e.g. a file path or table
	Describe() string
}
