// Package options derives the selectable values offered to a session.
package options

import (
	"macrolens/domain/macro"
	"macrolens/internal/config"
	"macrolens/internal/filter"
	"macrolens/internal/frame"
	"macrolens/internal/session"
)

// Lists holds every option list plus the initial selections
type Lists struct {
	Continents       []macro.Continent `json:"continents"`
	YearBounds       [2]int            `json:"year_bounds"`
	Indicators       []string          `json:"indicators"`
	Years            []int             `json:"years"`
	Groups           []string          `json:"groups"`
	Countries        []string          `json:"countries"`
	BenchmarkModes   []string          `json:"benchmark_modes"`
	ClusterSizeRange [2]int            `json:"cluster_size_range"`
	Defaults         Selection         `json:"defaults"`
}

// Selection is the set of initial values for the dashboard controls
type Selection struct {
	StartYear         int               `json:"start_year"`
	EndYear           int               `json:"end_year"`
	Continents        []macro.Continent `json:"continents"`
	ClusterIndicators []string          `json:"cluster_indicators"`
	ClusterYear       int               `json:"cluster_year"`
	K                 int               `json:"k"`
	RaceIndicator     string            `json:"race_indicator"`
	PeerIndicator     string            `json:"peer_indicator"`
	Group             string            `json:"group,omitempty"`
}

// Build derives the option lists for st. base is the unfiltered dataset
// and bounds the year range controls.
func Build(st *session.State, base []macro.Observation, defaults config.Defaults) Lists {
	lists := Lists{
		Continents:       append([]macro.Continent(nil), macro.AllContinents...),
		Years:            st.Scope.Years(),
		BenchmarkModes:   []string{string(macro.BenchmarkCluster), string(macro.BenchmarkCustom)},
		ClusterSizeRange: [2]int{macro.MinClusters, macro.MaxClusters},
	}
	if lo, hi, ok := filter.YearBounds(base); ok {
		lists.YearBounds = [2]int{lo, hi}
	}
	if st.Dataset != nil {
		lists.Indicators = frame.Indicators(st.Dataset.Observations)
	}
	if st.View != nil {
		lists.Countries = st.View.Countries()
	}
	if st.Run != nil {
		lists.Groups = st.Run.Labels()
	}

	lists.Defaults = defaultSelection(st, lists, defaults)
	return lists
}

// DefaultSelection returns only the default selection Build would report
func DefaultSelection(st *session.State, base []macro.Observation, defaults config.Defaults) Selection {
	return Build(st, base, defaults).Defaults
}

// defaultSelection falls back to the first available indicator when a
// configured default is not in the dataset.
func defaultSelection(st *session.State, lists Lists, defaults config.Defaults) Selection {
	sel := Selection{
		StartYear:   st.Scope.StartYear,
		EndYear:     st.Scope.EndYear,
		Continents:  st.Scope.Continents,
		ClusterYear: st.Scope.StartYear,
		K:           defaults.K,
	}

	available := make(map[string]bool, len(lists.Indicators))
	for _, ind := range lists.Indicators {
		available[ind] = true
	}
	pick := func(want string) string {
		if available[want] || len(lists.Indicators) == 0 {
			return want
		}
		return lists.Indicators[0]
	}
	sel.RaceIndicator = pick(defaults.RaceIndicator)
	sel.PeerIndicator = pick(defaults.PeerIndicator)

	for _, ind := range defaults.ClusterIndicators {
		if available[ind] {
			sel.ClusterIndicators = append(sel.ClusterIndicators, ind)
		}
	}
	if len(sel.ClusterIndicators) == 0 && len(lists.Indicators) > 0 {
		sel.ClusterIndicators = []string{lists.Indicators[0]}
	}

	if st.Params != nil {
		sel.ClusterIndicators = append([]string(nil), st.Params.Indicators...)
		sel.ClusterYear = st.Params.Year
		sel.K = st.Params.K
	}
	if len(lists.Groups) > 0 {
		sel.Group = lists.Groups[0]
	}
	return sel
}
