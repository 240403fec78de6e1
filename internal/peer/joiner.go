// Package peer joins cluster labels onto wide records and resolves the peer
// sets used by comparison views.
package peer

import (
	"macrolens/domain/macro"
	"macrolens/internal/frame"
)

// Join left-joins run labels onto every record of wide by country name. The
// cluster year does not take part in the join, so each country carries its
// one label across all years. Countries missing from the run keep an empty
// label. A nil run yields an all-unassigned view.
func Join(wide *frame.Frame, run *macro.ClusterRun) *macro.PeerView {
	labels := make(map[string]string)
	if run != nil {
		for _, a := range run.Assignments {
			labels[a.Country] = a.Label
		}
	}

	view := &macro.PeerView{
		Indicators: append([]string(nil), wide.Indicators...),
		Rows:       make([]macro.PeerRow, len(wide.Records)),
	}
	for i, rec := range wide.Records {
		view.Rows[i] = macro.PeerRow{WideRecord: rec, Cluster: labels[rec.Country]}
	}
	return view
}

// BuildView pivots a session dataset over all indicators and joins run
func BuildView(ds *macro.SessionDataset, run *macro.ClusterRun) (*macro.PeerView, error) {
	wide, err := frame.Pivot(ds.Observations, nil)
	if err != nil {
		return nil, err
	}
	return Join(wide, run), nil
}

// Filter returns the rows whose country is in countries, preserving order
func Filter(view *macro.PeerView, countries []string) []macro.PeerRow {
	keep := make(map[string]bool, len(countries))
	for _, c := range countries {
		keep[c] = true
	}
	var out []macro.PeerRow
	for _, r := range view.Rows {
		if keep[r.Country] {
			out = append(out, r)
		}
	}
	return out
}

// ByCluster returns the rows labelled group; unassigned rows never match
func ByCluster(view *macro.PeerView, group string) []macro.PeerRow {
	if group == "" {
		return nil
	}
	var out []macro.PeerRow
	for _, r := range view.Rows {
		if r.Cluster == group {
			out = append(out, r)
		}
	}
	return out
}
