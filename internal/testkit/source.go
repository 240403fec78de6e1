package testkit

import (
	"context"

	"macrolens/domain/macro"
	"macrolens/ports"
)

// MemorySource serves a fixed observation slice
type MemorySource struct {
	Name         string
	Observations []macro.Observation
	Err          error
}

var _ ports.ObservationSource = (*MemorySource)(nil)

// NewMemorySource wraps obs
func NewMemorySource(obs []macro.Observation) *MemorySource {
	return &MemorySource{Name: "memory", Observations: obs}
}

// NewGeneratedSource builds a source from the generator defaults with seed
func NewGeneratedSource(seed int64) (*MemorySource, error) {
	cfg := DefaultMacroConfig()
	cfg.Seed = seed
	obs, err := NewMacroDataGenerator(cfg).GenerateObservations()
	if err != nil {
		return nil, err
	}
	return NewMemorySource(obs), nil
}

// LoadObservations returns a copy of the configured observations
func (s *MemorySource) LoadObservations(ctx context.Context) ([]macro.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]macro.Observation, len(s.Observations))
	copy(out, s.Observations)
	return out, nil
}

// Describe names the source
func (s *MemorySource) Describe() string {
	return s.Name
}
