package session

import (
	"time"

	"macrolens/domain/core"
	"macrolens/domain/macro"
)

// State is one immutable snapshot of a dashboard session. Operations never
// mutate a State; they derive a new one.
type State struct {
	ID        core.SessionID        `json:"id"`
	Version   int                   `json:"version"`
	Scope     macro.Scope           `json:"scope"`
	Dataset   *macro.SessionDataset `json:"-"`
	Params    *macro.ClusterParams  `json:"cluster_params,omitempty"`
	Run       *macro.ClusterRun     `json:"-"`
	RunError  string                `json:"run_error,omitempty"`
	View      *macro.PeerView       `json:"-"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`

	datasetKey core.Hash
	runKey     core.Hash
	viewKey    core.Hash
}

// HasRun reports whether an active clustering run exists
func (s *State) HasRun() bool {
	return s != nil && s.Run != nil
}

// next copies s for the following version
func (s *State) next() *State {
	n := *s
	n.Version = s.Version + 1
	n.UpdatedAt = time.Now()
	return &n
}
