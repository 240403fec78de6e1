package ports

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// ClusterFit is the engine output: one cluster index per matrix row and the
// within-cluster sum of squared distances
type ClusterFit struct {
	Labels    []int
	Inertia   float64
	Centroids *mat.Dense
}

// ClusteringEngine partitions the rows of a numeric matrix into k groups.
// The same data, k and seed must yield the same labels.
type ClusteringEngine interface {
	Fit(ctx context.Context, data mat.Matrix, k int, seed int64) (*ClusterFit, error)
}
