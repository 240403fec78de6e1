// Package cluster turns a session dataset into country cluster assignments:
// pivot for one year, mean imputation, standard scaling, engine fit and
// Group labelling.
package cluster

import (
	"context"
	"fmt"
	"sort"

	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/internal"
	"macrolens/internal/frame"
	"macrolens/ports"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Pipeline runs clustering passes against an engine
type Pipeline struct {
	engine ports.ClusteringEngine
	logger *internal.Logger
}

// NewPipeline creates a pipeline. A nil logger uses the default logger.
func NewPipeline(engine ports.ClusteringEngine, logger *internal.Logger) *Pipeline {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{engine: engine, logger: logger}
}

// prepared is the imputed and scaled clustering input for one year
type prepared struct {
	records []macro.WideRecord
	imputed []map[string]float64
	scaled  *mat.Dense
	means   map[string]float64
	filled  int
}

// Run clusters the countries of ds for params.Year. Countries without any
// observation row in that year are not part of the input and get no label.
func (p *Pipeline) Run(ctx context.Context, ds *macro.SessionDataset, params macro.ClusterParams) (*macro.ClusterRun, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Indicators = append([]string(nil), params.Indicators...)

	in, err := prepare(ds, params.Indicators, params.Year)
	if err != nil {
		return nil, err
	}
	if len(in.records) < params.K {
		return nil, core.NewInsufficientDataError("%d countries in %d cannot form %d clusters", len(in.records), params.Year, params.K)
	}

	fit, err := p.engine.Fit(ctx, in.scaled, params.K, params.Seed)
	if err != nil {
		return nil, fmt.Errorf("clustering engine failed: %w", err)
	}
	if len(fit.Labels) != len(in.records) {
		return nil, fmt.Errorf("clustering engine returned %d labels for %d rows", len(fit.Labels), len(in.records))
	}

	run := buildRun(in, fit, params)
	run.Fingerprint = core.HashParts(params.Fingerprint(), ds.Scope.Fingerprint())

	p.logger.Info("[ClusterPipeline] year=%d k=%d indicators=%v countries=%d imputed=%d inertia=%.4f",
		params.Year, params.K, params.Indicators, len(run.Assignments), run.ImputedValues, run.Inertia)

	return run, nil
}

// InertiaCurve fits k = 1..maxK on the same prepared input in parallel and
// returns one point per k, in ascending k. params.K is ignored.
func (p *Pipeline) InertiaCurve(ctx context.Context, ds *macro.SessionDataset, params macro.ClusterParams, maxK int) ([]macro.InertiaPoint, error) {
	params.K = macro.MinClusters
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if maxK < macro.MinClusters || maxK > macro.MaxClusters {
		return nil, core.NewClusterConfigError(fmt.Sprintf("max k must be between %d and %d, got %d", macro.MinClusters, macro.MaxClusters, maxK))
	}

	in, err := prepare(ds, params.Indicators, params.Year)
	if err != nil {
		return nil, err
	}
	if maxK > len(in.records) {
		maxK = len(in.records)
	}

	points := make([]macro.InertiaPoint, maxK)
	g, gctx := errgroup.WithContext(ctx)
	for k := 1; k <= maxK; k++ {
		g.Go(func() error {
			fit, err := p.engine.Fit(gctx, in.scaled, k, params.Seed)
			if err != nil {
				return fmt.Errorf("k=%d: %w", k, err)
			}
			points[k-1] = macro.InertiaPoint{K: k, Inertia: fit.Inertia}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Debug("[ClusterPipeline] inertia curve year=%d max_k=%d", params.Year, maxK)
	return points, nil
}

func prepare(ds *macro.SessionDataset, indicators []string, year int) (*prepared, error) {
	if ds == nil {
		return nil, core.NewInsufficientDataError("no session dataset")
	}

	wide, err := frame.Pivot(ds.Observations, indicators)
	if err != nil {
		return nil, err
	}
	wide = wide.ForYear(year)
	if wide.Len() == 0 {
		return nil, core.NewInsufficientDataError("no records for year %d", year)
	}

	n, m := wide.Len(), len(indicators)
	raw := mat.NewDense(n, m, nil)
	imputed := make([]map[string]float64, n)
	for i := range imputed {
		imputed[i] = make(map[string]float64, m)
	}
	means := make(map[string]float64, m)
	filled := 0

	for j, ind := range indicators {
		col := wide.Column(ind)
		present := make(stats.Float64Data, 0, n)
		for _, v := range col {
			if v != nil {
				present = append(present, *v)
			}
		}
		if len(present) == 0 {
			return nil, core.NewInsufficientDataError("indicator %q has no values in %d", ind, year)
		}
		mean, err := stats.Mean(present)
		if err != nil {
			return nil, fmt.Errorf("mean of %q: %w", ind, err)
		}
		means[ind] = mean

		for i, v := range col {
			value := mean
			if v != nil {
				value = *v
			} else {
				filled++
			}
			raw.Set(i, j, value)
			imputed[i][ind] = value
		}
	}

	return &prepared{
		records: wide.Records,
		imputed: imputed,
		scaled:  standardize(raw),
		means:   means,
		filled:  filled,
	}, nil
}

// standardize scales each column to zero mean and unit population variance.
// Constant columns become all zeros.
func standardize(raw *mat.Dense) *mat.Dense {
	n, m := raw.Dims()
	scaled := mat.NewDense(n, m, nil)
	col := make([]float64, n)
	for j := 0; j < m; j++ {
		mat.Col(col, j, raw)
		mean, std := stat.PopMeanStdDev(col, nil)
		for i, v := range col {
			if std == 0 {
				scaled.Set(i, j, 0)
				continue
			}
			scaled.Set(i, j, (v-mean)/std)
		}
	}
	return scaled
}

func buildRun(in *prepared, fit *ports.ClusterFit, params macro.ClusterParams) *macro.ClusterRun {
	assignments := make([]macro.ClusterAssignment, len(in.records))
	for i, rec := range in.records {
		assignments[i] = macro.ClusterAssignment{
			Country:   rec.Country,
			Code:      rec.Code,
			Capital:   rec.Capital,
			Continent: rec.Continent,
			Year:      rec.Year,
			Label:     macro.GroupLabel(fit.Labels[i]),
			Values:    in.imputed[i],
		}
	}

	order := make(map[string]int, len(in.records))
	for i, rec := range in.records {
		order[rec.Country] = fit.Labels[i]
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		li, lj := order[assignments[i].Country], order[assignments[j].Country]
		if li != lj {
			return li < lj
		}
		return assignments[i].Country < assignments[j].Country
	})

	run := &macro.ClusterRun{
		ID:            core.NewRunID(),
		Params:        params,
		Assignments:   assignments,
		Inertia:       fit.Inertia,
		ColumnMeans:   in.means,
		ImputedValues: in.filled,
	}

	var groups [][]string
	for _, members := range run.Groups() {
		groups = append(groups, members)
	}
	run.Partition = core.HashPartition(groups)
	return run
}
