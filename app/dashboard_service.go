package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/internal"
	"macrolens/internal/cluster"
	"macrolens/internal/config"
	"macrolens/internal/filter"
	"macrolens/internal/frame"
	"macrolens/internal/options"
	"macrolens/internal/peer"
	"macrolens/internal/profiling"
	"macrolens/internal/session"
	"macrolens/internal/views"
	"macrolens/ports"
)

// DashboardService runs every dashboard operation against one session
type DashboardService struct {
	graph    *session.Graph
	store    *session.Store
	exporter ports.ClusterExporter
	defaults config.Defaults
	seed     int64
	source   string
	logger   *internal.Logger
}

// ClusterRequest asks for a clustering run. Zero fields take the session's
// last parameters, then the configured defaults.
type ClusterRequest struct {
	Indicators []string `json:"indicators"`
	Year       int      `json:"year"`
	K          int      `json:"k"`
	Seed       *int64   `json:"seed,omitempty"`
}

// PeerRequest asks for a peer comparison
type PeerRequest struct {
	Focus     string   `json:"focus"`
	Mode      string   `json:"mode"`
	Custom    []string `json:"custom,omitempty"`
	Indicator string   `json:"indicator"`
	Chart     string   `json:"chart"`
}

// PeerResult is the resolved peer set with its two chart tables
type PeerResult struct {
	Set    macro.PeerSet `json:"peer_set"`
	Series *views.Table  `json:"series"`
	Map    *views.Table  `json:"map"`
}

// RunSummary describes the active clustering run
type RunSummary struct {
	ID            core.RunID          `json:"id"`
	Params        macro.ClusterParams `json:"params"`
	Inertia       float64             `json:"inertia"`
	ImputedValues int                 `json:"imputed_values"`
	Groups        map[string][]string `json:"groups"`
	Labels        []string            `json:"labels"`
	Partition     string              `json:"partition"`
}

// SessionSummary is the JSON view of a session state
type SessionSummary struct {
	ID           core.SessionID       `json:"id"`
	Version      int                  `json:"version"`
	Scope        macro.Scope          `json:"scope"`
	Observations int                  `json:"observations"`
	Countries    int                  `json:"countries"`
	Params       *macro.ClusterParams `json:"cluster_params,omitempty"`
	Run          *RunSummary          `json:"run,omitempty"`
	RunError     string               `json:"run_error,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewDashboardService wires a service over the loaded base dataset
func NewDashboardService(base []macro.Observation, engine ports.ClusteringEngine, exporter ports.ClusterExporter, defaults config.Defaults, seed int64, logger *internal.Logger) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	pipeline := cluster.NewPipeline(engine, logger)
	return &DashboardService{
		graph:    session.NewGraph(base, pipeline, logger),
		store:    session.NewStore(),
		exporter: exporter,
		defaults: defaults,
		seed:     seed,
		logger:   logger,
	}
}

// LoadBase reads the base dataset once from source
func LoadBase(ctx context.Context, source ports.ObservationSource, logger *internal.Logger) ([]macro.Observation, error) {
	start := time.Now()
	obs, err := source.LoadObservations(ctx)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, core.NewInsufficientDataError("%s has no observations", source.Describe())
	}
	logger.Info("[DashboardService] loaded %d observations from %s in %s", len(obs), source.Describe(), time.Since(start).Round(time.Millisecond))
	return obs, nil
}

// Overview describes the loaded base dataset
type Overview struct {
	Source       string            `json:"source"`
	Observations int               `json:"observations"`
	Indicators   []string          `json:"indicators"`
	Countries    int               `json:"countries"`
	FirstYear    int               `json:"first_year"`
	LastYear     int               `json:"last_year"`
	Continents   []macro.Continent `json:"continents"`
}

// Overview summarizes the base dataset
func (s *DashboardService) Overview() Overview {
	base := s.graph.Base()
	ov := Overview{
		Source:       s.source,
		Observations: len(base),
		Indicators:   frame.Indicators(base),
		Continents:   macro.AllContinents,
	}
	countries := make(map[string]bool)
	for _, o := range base {
		countries[o.Country] = true
	}
	ov.Countries = len(countries)
	ov.FirstYear, ov.LastYear, _ = filter.YearBounds(base)
	return ov
}

// SetSource records a description of where the base dataset came from
func (s *DashboardService) SetSource(source string) {
	s.source = source
}

// Defaults returns the configured dashboard defaults
func (s *DashboardService) Defaults() config.Defaults {
	return s.defaults
}

// CreateSession starts a session. A nil scope takes the default filter.
func (s *DashboardService) CreateSession(ctx context.Context, scope *macro.Scope) (*session.State, error) {
	sc, err := s.defaults.Scope()
	if err != nil {
		return nil, err
	}
	if scope != nil {
		sc = *scope
	}

	st, err := s.graph.New(ctx, core.NewSessionID(), sc)
	if err != nil {
		return nil, err
	}
	s.store.Put(st)
	s.logger.Info("[DashboardService] session %s created (%d observations)", st.ID, st.Dataset.Len())
	return st, nil
}

// Session returns the current state of id
func (s *DashboardService) Session(id core.SessionID) (*session.State, error) {
	return s.store.Get(id)
}

// ApplyScope filters the session and re-runs clustering when one is active
func (s *DashboardService) ApplyScope(ctx context.Context, id core.SessionID, scope macro.Scope) (*session.State, error) {
	return s.store.Update(id, func(st *session.State) (*session.State, error) {
		return s.graph.WithScope(ctx, st, scope)
	})
}

// RunClustering clusters the session's dataset
func (s *DashboardService) RunClustering(ctx context.Context, id core.SessionID, req ClusterRequest) (*session.State, error) {
	return s.store.Update(id, func(st *session.State) (*session.State, error) {
		next, err := s.graph.WithClustering(ctx, st, s.resolveParams(st, req))
		if err != nil {
			s.logger.Warn("[DashboardService] session %s clustering failed: %v", id, err)
		}
		return next, err
	})
}

// InertiaCurve returns the elbow curve for the session's clustering inputs
func (s *DashboardService) InertiaCurve(ctx context.Context, id core.SessionID, req ClusterRequest, maxK int) ([]macro.InertiaPoint, error) {
	st, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return s.graph.Pipeline().InertiaCurve(ctx, st.Dataset, s.resolveParams(st, req), maxK)
}

func (s *DashboardService) resolveParams(st *session.State, req ClusterRequest) macro.ClusterParams {
	var params macro.ClusterParams
	if st.Params != nil {
		params = *st.Params
	} else {
		sel := s.selection(st)
		params = macro.ClusterParams{Indicators: sel.ClusterIndicators, Year: sel.ClusterYear, K: sel.K, Seed: s.seed}
	}
	if len(req.Indicators) > 0 {
		params.Indicators = req.Indicators
	}
	if req.Year != 0 {
		params.Year = req.Year
	}
	if req.K != 0 {
		params.K = req.K
	}
	if req.Seed != nil {
		params.Seed = *req.Seed
	}
	return params
}

// selection resolves the configured defaults against the session data
func (s *DashboardService) selection(st *session.State) options.Selection {
	return options.DefaultSelection(st, s.graph.Base(), s.defaults)
}

// Options lists the selectable values of the session
func (s *DashboardService) Options(id core.SessionID) (options.Lists, error) {
	st, err := s.store.Get(id)
	if err != nil {
		return options.Lists{}, err
	}
	return options.Build(st, s.graph.Base(), s.defaults), nil
}

// RaceChart builds the bar race table. A nil window shows every year.
func (s *DashboardService) RaceChart(id core.SessionID, indicator string, window *views.YearWindow) (*views.Table, error) {
	st, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if indicator == "" {
		indicator = s.selection(st).RaceIndicator
	}
	return views.Race(st.Dataset, indicator, window)
}

// ClusterMap builds the choropleth table of the active run
func (s *DashboardService) ClusterMap(id core.SessionID) (*views.Table, error) {
	st, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return views.ClusterMap(st.Run)
}

// Explore lists one group's members for an indicator
func (s *DashboardService) Explore(id core.SessionID, group, indicator string, year *int) (*views.Table, error) {
	st, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !st.HasRun() {
		return nil, core.ErrNoActiveClustering
	}
	if group == "" {
		if labels := st.Run.Labels(); len(labels) > 0 {
			group = labels[0]
		}
	}
	if indicator == "" && len(st.Run.Params.Indicators) > 0 {
		indicator = st.Run.Params.Indicators[0]
	}
	return views.Explore(st.View, group, indicator, year)
}

// Peers resolves a peer set and builds its comparison tables
func (s *DashboardService) Peers(id core.SessionID, req PeerRequest) (*PeerResult, error) {
	st, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	mode, err := macro.ParseBenchmarkMode(req.Mode)
	if err != nil {
		return nil, err
	}

	set, err := peer.Resolve(st.View, macro.PeerSelection{Focus: req.Focus, Mode: mode, Custom: req.Custom}, st.HasRun())
	if err != nil {
		return nil, err
	}

	indicator := req.Indicator
	if indicator == "" {
		indicator = s.selection(st).PeerIndicator
	}
	series, err := views.PeerSeries(st.View, set, indicator, req.Chart)
	if err != nil {
		return nil, err
	}
	return &PeerResult{Set: set, Series: series, Map: views.PeerMap(st.View, set)}, nil
}

// Profile summarizes each indicator of the session dataset. A nil year
// covers the whole scope.
func (s *DashboardService) Profile(id core.SessionID, year *int) ([]profiling.IndicatorProfile, error) {
	st, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return profiling.ProfileDataset(st.Dataset, year), nil
}

// Export writes the active run's workbook to w
func (s *DashboardService) Export(id core.SessionID, w io.Writer) error {
	st, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if !st.HasRun() {
		return core.ErrNoActiveClustering
	}
	if err := s.exporter.Export(w, st.Run.Params.Indicators, st.View); err != nil {
		return fmt.Errorf("failed to export session %s: %w", id, err)
	}
	return nil
}

// Summarize renders st for clients
func Summarize(st *session.State) SessionSummary {
	sum := SessionSummary{
		ID:           st.ID,
		Version:      st.Version,
		Scope:        st.Scope,
		Observations: st.Dataset.Len(),
		Params:       st.Params,
		RunError:     st.RunError,
		UpdatedAt:    st.UpdatedAt,
	}
	if st.View != nil {
		sum.Countries = len(st.View.Countries())
	}
	if run := st.Run; run != nil {
		sum.Run = &RunSummary{
			ID:            run.ID,
			Params:        run.Params,
			Inertia:       run.Inertia,
			ImputedValues: run.ImputedValues,
			Groups:        run.Groups(),
			Labels:        run.Labels(),
			Partition:     run.Partition.String(),
		}
	}
	return sum
}
