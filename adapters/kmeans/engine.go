// Package kmeans provides the default clustering engine: k-means++ seeding
// followed by Lloyd iterations, repeated NInit times, keeping the fit with the
// lowest inertia.
package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"macrolens/ports"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Config holds engine tuning
type Config struct {
	NInit     int     `json:"n_init"`
	MaxIter   int     `json:"max_iter"`
	Tolerance float64 `json:"tolerance"` // relative to the mean column variance
}

// DefaultConfig mirrors the usual k-means defaults
func DefaultConfig() Config {
	return Config{
		NInit:     10,
		MaxIter:   300,
		Tolerance: 1e-4,
	}
}

// Engine implements ports.ClusteringEngine
type Engine struct {
	config Config
}

var _ ports.ClusteringEngine = (*Engine)(nil)

// NewEngine creates an engine, filling zero config fields with defaults
func NewEngine(config Config) *Engine {
	def := DefaultConfig()
	if config.NInit <= 0 {
		config.NInit = def.NInit
	}
	if config.MaxIter <= 0 {
		config.MaxIter = def.MaxIter
	}
	if config.Tolerance <= 0 {
		config.Tolerance = def.Tolerance
	}
	return &Engine{config: config}
}

// Fit partitions the rows of data into k clusters
func (e *Engine) Fit(ctx context.Context, data mat.Matrix, k int, seed int64) (*ports.ClusterFit, error) {
	n, d := data.Dims()
	if n == 0 || d == 0 {
		return nil, fmt.Errorf("kmeans: empty matrix (%dx%d)", n, d)
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("kmeans: k=%d must be between 1 and the number of rows (%d)", k, n)
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, data)
	}
	tol := e.config.Tolerance * meanVariance(data)

	rng := rand.New(rand.NewSource(seed))

	var best *ports.ClusterFit
	for run := 0; run < e.config.NInit; run++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		centroids := seedPlusPlus(rows, k, rng)
		fit := lloyd(rows, centroids, e.config.MaxIter, tol)
		if best == nil || fit.Inertia < best.Inertia {
			best = fit
		}
	}
	return best, nil
}

// seedPlusPlus picks k initial centroids with D² weighting
func seedPlusPlus(rows [][]float64, k int, rng *rand.Rand) *mat.Dense {
	n, d := len(rows), len(rows[0])
	centroids := mat.NewDense(k, d, nil)
	centroids.SetRow(0, rows[rng.Intn(n)])

	minDist := make([]float64, n)
	for i, row := range rows {
		minDist[i] = sqDist(row, centroids.RawRowView(0))
	}

	for c := 1; c < k; c++ {
		total := floats.Sum(minDist)
		next := 0
		if total <= 0 {
			next = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			acc := 0.0
			next = n - 1
			for i, w := range minDist {
				acc += w
				if acc >= target && w > 0 {
					next = i
					break
				}
			}
		}
		centroids.SetRow(c, rows[next])
		for i, row := range rows {
			if dist := sqDist(row, centroids.RawRowView(c)); dist < minDist[i] {
				minDist[i] = dist
			}
		}
	}
	return centroids
}

// lloyd refines centroids until the squared centroid shift drops under tol
func lloyd(rows [][]float64, centroids *mat.Dense, maxIter int, tol float64) *ports.ClusterFit {
	k, d := centroids.Dims()
	labels := make([]int, len(rows))

	for iter := 0; iter < maxIter; iter++ {
		assign(rows, centroids, labels)

		next := mat.NewDense(k, d, nil)
		counts := make([]int, k)
		for i, row := range rows {
			floats.Add(next.RawRowView(labels[i]), row)
			counts[labels[i]]++
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			dst := next.RawRowView(c)
			if counts[c] == 0 {
				// empty cluster keeps its previous centroid
				copy(dst, centroids.RawRowView(c))
				continue
			}
			floats.Scale(1/float64(counts[c]), dst)
			shift += sqDist(dst, centroids.RawRowView(c))
		}
		centroids = next
		if shift <= tol {
			break
		}
	}

	inertia := assign(rows, centroids, labels)
	return &ports.ClusterFit{Labels: labels, Inertia: inertia, Centroids: centroids}
}

// assign writes the nearest centroid per row into labels and returns the
// inertia. Ties go to the lowest centroid index.
func assign(rows [][]float64, centroids *mat.Dense, labels []int) float64 {
	k, _ := centroids.Dims()
	inertia := 0.0
	for i, row := range rows {
		bestIdx, bestDist := 0, math.Inf(1)
		for c := 0; c < k; c++ {
			if dist := sqDist(row, centroids.RawRowView(c)); dist < bestDist {
				bestIdx, bestDist = c, dist
			}
		}
		labels[i] = bestIdx
		inertia += bestDist
	}
	return inertia
}

func sqDist(a, b []float64) float64 {
	dist := floats.Distance(a, b, 2)
	return dist * dist
}

func meanVariance(data mat.Matrix) float64 {
	n, d := data.Dims()
	col := make([]float64, n)
	total := 0.0
	for j := 0; j < d; j++ {
		mat.Col(col, j, data)
		total += stat.PopVariance(col, nil)
	}
	return total / float64(d)
}
