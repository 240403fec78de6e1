package views

import (
	"fmt"

	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/internal/peer"
)

// Peer map border widths
const (
	PeerBorderWidth  = 7
	OtherBorderWidth = 1
)

// PeerSeries builds the line or heatmap table comparing the peer set on one
// indicator. The focus flag marks the focus country's series.
func PeerSeries(view *macro.PeerView, set macro.PeerSet, indicator, kind string) (*Table, error) {
	if kind == "" {
		kind = KindLine
	}
	if kind != KindLine && kind != KindHeatmap {
		return nil, core.NewValidationError("chart", fmt.Sprintf("%q is not line or heatmap", kind))
	}
	if !hasIndicator(view, indicator) {
		return nil, core.NewValidationError("indicator", fmt.Sprintf("%q is not in the dataset", indicator))
	}

	table := &Table{
		Title:   fmt.Sprintf("Peer comparison for %s based on %s", set.Focus, indicator),
		Kind:    kind,
		Columns: []string{"year", "Country Name", indicator, "focus"},
	}
	for _, r := range peer.Filter(view, set.Countries) {
		var value interface{}
		if v, ok := r.Value(indicator); ok {
			value = v
		}
		table.Rows = append(table.Rows, []interface{}{r.Year, r.Country, value, r.Country == set.Focus})
	}
	return table, nil
}

// PeerMap marks every country of the view, peers with a wide border
func PeerMap(view *macro.PeerView, set macro.PeerSet) *Table {
	table := &Table{
		Title:   fmt.Sprintf("Peers of %s", set.Focus),
		Kind:    KindChoropleth,
		Columns: []string{"Country Name", "Country Code", "border_width"},
	}
	seen := make(map[string]bool)
	for _, r := range view.Rows {
		if seen[r.Country] {
			continue
		}
		seen[r.Country] = true
		width := OtherBorderWidth
		if set.Contains(r.Country) {
			width = PeerBorderWidth
		}
		table.Rows = append(table.Rows, []interface{}{r.Country, r.Code, width})
	}
	return table
}
