package session

import (
	"context"
	"time"

	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/internal"
	"macrolens/internal/cluster"
	"macrolens/internal/filter"
	"macrolens/internal/peer"
)

// Graph recomputes the derived nodes of a State (dataset, run, view). Each
// node is keyed by a fingerprint of its inputs and reused while the key is
// unchanged.
type Graph struct {
	base     []macro.Observation
	pipeline *cluster.Pipeline
	logger   *internal.Logger
}

// NewGraph creates a graph over the shared read-only base dataset
func NewGraph(base []macro.Observation, pipeline *cluster.Pipeline, logger *internal.Logger) *Graph {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Graph{base: base, pipeline: pipeline, logger: logger}
}

// Base returns the unfiltered dataset
func (g *Graph) Base() []macro.Observation {
	return g.base
}

// Pipeline returns the clustering pipeline
func (g *Graph) Pipeline() *cluster.Pipeline {
	return g.pipeline
}

// New builds the first State of a session
func (g *Graph) New(ctx context.Context, id core.SessionID, scope macro.Scope) (*State, error) {
	now := time.Now()
	st := &State{ID: id, CreatedAt: now, UpdatedAt: now}
	ds, err := filter.Apply(g.base, scope)
	if err != nil {
		return nil, err
	}
	st.Scope = ds.Scope
	st.Dataset = ds
	st.datasetKey = ds.Scope.Fingerprint()
	if err := g.refreshView(st); err != nil {
		return nil, err
	}
	return st, nil
}

// WithScope applies a new filter. Clustering is re-run with the last
// parameters; when that fails the run is cleared and the error recorded.
// An invalid scope returns the error and leaves the session unchanged.
func (g *Graph) WithScope(ctx context.Context, st *State, scope macro.Scope) (*State, error) {
	ds, err := filter.Apply(g.base, scope)
	if err != nil {
		return nil, err
	}
	key := ds.Scope.Fingerprint()
	if key == st.datasetKey {
		return st, nil
	}

	n := st.next()
	n.Scope = ds.Scope
	n.Dataset = ds
	n.datasetKey = key

	if n.Params != nil {
		if err := g.rerun(ctx, n, *n.Params); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			g.logger.Warn("[Session] %s: clustering cleared after scope change: %v", n.ID, err)
			n.Run = nil
			n.runKey = ""
			n.RunError = err.Error()
		}
	}

	if err := g.refreshView(n); err != nil {
		return nil, err
	}
	return n, nil
}

// WithClustering runs clustering for params. A failed run returns the
// error and leaves the session unchanged.
func (g *Graph) WithClustering(ctx context.Context, st *State, params macro.ClusterParams) (*State, error) {
	if st.Run != nil && runKey(params, st.datasetKey) == st.runKey {
		return st, nil
	}

	n := st.next()
	if err := g.rerun(ctx, n, params); err != nil {
		return nil, err
	}
	if err := g.refreshView(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (g *Graph) rerun(ctx context.Context, n *State, params macro.ClusterParams) error {
	run, err := g.pipeline.Run(ctx, n.Dataset, params)
	if err != nil {
		return err
	}
	p := run.Params
	n.Params = &p
	n.Run = run
	n.RunError = ""
	n.runKey = runKey(params, n.datasetKey)
	return nil
}

func (g *Graph) refreshView(n *State) error {
	key := viewKey(n)
	if n.View != nil && key == n.viewKey {
		return nil
	}
	view, err := peer.BuildView(n.Dataset, n.Run)
	if err != nil {
		return err
	}
	n.View = view
	n.viewKey = key
	return nil
}

func runKey(params macro.ClusterParams, datasetKey core.Hash) core.Hash {
	return core.HashParts(params.Fingerprint(), datasetKey)
}

func viewKey(n *State) core.Hash {
	if n.Run == nil {
		return core.HashParts(n.datasetKey, "unclustered")
	}
	return core.HashParts(n.datasetKey, n.runKey)
}
