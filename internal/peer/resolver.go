package peer

import (
	"fmt"

	"macrolens/domain/core"
	"macrolens/domain/macro"
)

// Resolve turns a peer selection into a concrete peer set.
//
// In cluster mode the set is every country sharing the focus country's label,
// in view order, and requires an active run. In custom mode it is the custom
// list (deduplicated, unknown names rejected) with the focus appended when
// absent.
func Resolve(view *macro.PeerView, sel macro.PeerSelection, hasRun bool) (macro.PeerSet, error) {
	set := macro.PeerSet{Focus: sel.Focus, Mode: sel.Mode}

	switch sel.Mode {
	case macro.BenchmarkCluster, macro.BenchmarkCustom:
	default:
		return set, core.NewValidationError("benchmark mode", fmt.Sprintf("unknown value %q", sel.Mode))
	}

	if sel.Mode == macro.BenchmarkCluster && !hasRun {
		return set, core.ErrNoActiveClustering
	}

	label, present := view.LabelOf(sel.Focus)
	if !present {
		return set, core.NewUnknownCountryError(sel.Focus)
	}

	if sel.Mode == macro.BenchmarkCluster {
		if label == "" {
			return set, core.NewUnassignedCountryError(sel.Focus)
		}
		set.Cluster = label
		seen := make(map[string]bool)
		for _, r := range view.Rows {
			if r.Cluster == label && !seen[r.Country] {
				seen[r.Country] = true
				set.Countries = append(set.Countries, r.Country)
			}
		}
		return set, nil
	}

	known := make(map[string]bool)
	for _, c := range view.Countries() {
		known[c] = true
	}
	seen := make(map[string]bool, len(sel.Custom)+1)
	for _, c := range sel.Custom {
		if !known[c] {
			return set, core.NewUnknownCountryError(c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		set.Countries = append(set.Countries, c)
	}
	if !seen[sel.Focus] {
		set.Countries = append(set.Countries, sel.Focus)
	}
	set.Cluster = label
	return set, nil
}
