package views

import (
	"fmt"
	"strings"

	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/internal/peer"
)

// ClusterMap builds the choropleth table of a run. Hover columns carry the
// imputed values each country entered the fit with.
func ClusterMap(run *macro.ClusterRun) (*Table, error) {
	if run == nil {
		return nil, core.ErrNoActiveClustering
	}

	table := &Table{
		Title: fmt.Sprintf("Country cluster period - %d. Number of clusters: %d. Inertia: %s. Indicators: %s",
			run.Params.Year, run.Params.K, thousands(run.Inertia), strings.Join(run.Params.Indicators, ", ")),
		Kind:    KindChoropleth,
		Columns: append([]string{"Country Name", "Country Code", "Cluster"}, run.Params.Indicators...),
	}
	for _, a := range run.Assignments {
		row := []interface{}{a.Country, a.Code, a.Label}
		for _, ind := range run.Params.Indicators {
			row = append(row, a.Values[ind])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Explore lists the members of group with one indicator rounded to one
// decimal. A nil year keeps every year.
func Explore(view *macro.PeerView, group, indicator string, year *int) (*Table, error) {
	if group == "" {
		return nil, core.NewValidationError("group", "is required")
	}
	if indicator == "" {
		return nil, core.NewValidationError("indicator", "is required")
	}
	if !hasIndicator(view, indicator) {
		return nil, core.NewValidationError("indicator", fmt.Sprintf("%q is not in the dataset", indicator))
	}

	table := &Table{
		Title:   fmt.Sprintf("%s: %s", group, indicator),
		Kind:    KindTable,
		Columns: []string{"Country Name", "year", "Cluster", "Capital", "Continent", indicator},
	}
	for _, r := range peer.ByCluster(view, group) {
		if year != nil && r.Year != *year {
			continue
		}
		var value interface{}
		if v, ok := r.Value(indicator); ok {
			value = round1(v)
		}
		table.Rows = append(table.Rows, []interface{}{r.Country, r.Year, r.Cluster, r.Capital, string(r.Continent), value})
	}
	return table, nil
}

func hasIndicator(view *macro.PeerView, indicator string) bool {
	for _, ind := range view.Indicators {
		if ind == indicator {
			return true
		}
	}
	return false
}
