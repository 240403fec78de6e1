package filter

import (
	"fmt"

	"macrolens/domain/core"
	"macrolens/domain/macro"
)

// Apply filters base observations to the scope's inclusive year range and
// continent set. An empty continent set keeps every continent. The result is
// a new dataset; base is never modified.
func Apply(base []macro.Observation, scope macro.Scope) (*macro.SessionDataset, error) {
	if scope.StartYear > scope.EndYear {
		return nil, fmt.Errorf("%w: start %d is after end %d", core.ErrInvalidYearRange, scope.StartYear, scope.EndYear)
	}

	normalized, err := normalizeContinents(scope.Continents)
	if err != nil {
		return nil, err
	}
	scope.Continents = normalized

	allowed := make(map[macro.Continent]bool, len(normalized))
	for _, c := range normalized {
		allowed[c] = true
	}

	kept := make([]macro.Observation, 0, len(base))
	for _, obs := range base {
		if obs.Year < scope.StartYear || obs.Year > scope.EndYear {
			continue
		}
		if len(allowed) > 0 && !allowed[obs.Continent] {
			continue
		}
		kept = append(kept, obs)
	}

	return &macro.SessionDataset{Scope: scope, Observations: kept}, nil
}

// normalizeContinents validates names and drops duplicates, keeping order
func normalizeContinents(in []macro.Continent) ([]macro.Continent, error) {
	if len(in) == 0 {
		return nil, nil
	}
	seen := make(map[macro.Continent]bool, len(in))
	out := make([]macro.Continent, 0, len(in))
	for _, raw := range in {
		c, err := macro.ParseContinent(string(raw))
		if err != nil {
			return nil, err
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

// YearBounds returns the smallest and largest year present. ok is false for
// an empty input.
func YearBounds(observations []macro.Observation) (min, max int, ok bool) {
	for i, obs := range observations {
		if i == 0 || obs.Year < min {
			min = obs.Year
		}
		if i == 0 || obs.Year > max {
			max = obs.Year
		}
	}
	return min, max, len(observations) > 0
}
