package macro

import (
	"fmt"
	"strings"

	"macrolens/domain/core"
)

// BenchmarkMode selects how the peer set is built
type BenchmarkMode string

const (
	BenchmarkCluster BenchmarkMode = "cluster"
	BenchmarkCustom  BenchmarkMode = "custom"
)

// ParseBenchmarkMode accepts the mode names and the dashboard's radio values
func ParseBenchmarkMode(s string) (BenchmarkMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cluster", "cluster-benchmark":
		return BenchmarkCluster, nil
	case "custom", "custom-benchmark":
		return BenchmarkCustom, nil
	}
	return "", core.NewValidationError("benchmark mode", fmt.Sprintf("unknown value %q", s))
}

// PeerSelection is the user's peer comparison request
type PeerSelection struct {
	Focus  string        `json:"focus"`
	Mode   BenchmarkMode `json:"mode"`
	Custom []string      `json:"custom,omitempty"`
}

// PeerSet is an ordered, duplicate-free list of countries
type PeerSet struct {
	Focus     string        `json:"focus"`
	Mode      BenchmarkMode `json:"mode"`
	Cluster   string        `json:"cluster,omitempty"`
	Countries []string      `json:"countries"`
}

// Contains reports whether the country is in the set
func (p PeerSet) Contains(country string) bool {
	for _, c := range p.Countries {
		if c == country {
			return true
		}
	}
	return false
}
