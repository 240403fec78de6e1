package views

import (
	"fmt"
	"sort"

	"macrolens/domain/core"
	"macrolens/domain/macro"
)

// RaceTopN is the number of countries shown per year in the bar race
const RaceTopN = 20

// YearWindow narrows the bar race to a zoomed year range
type YearWindow struct {
	Start int
	End   int
}

type racePoint struct {
	country string
	year    int
	value   float64
}

// Race builds the bar race table for indicator: the top 20 countries per
// year by value. With a window only years inside it are kept and the
// country set is fixed to the top 20 by their maximum inside the window.
func Race(ds *macro.SessionDataset, indicator string, window *YearWindow) (*Table, error) {
	if indicator == "" {
		return nil, core.NewValidationError("indicator", "is required")
	}
	if window != nil && window.Start > window.End {
		return nil, fmt.Errorf("%w: start %d is after end %d", core.ErrInvalidYearRange, window.Start, window.End)
	}

	var points []racePoint
	known := false
	seen := make(map[macro.RecordKey]bool)
	for _, o := range ds.Observations {
		if o.Indicator != indicator {
			continue
		}
		known = true
		if !o.HasValue() {
			continue
		}
		if window != nil && (o.Year < window.Start || o.Year > window.End) {
			continue
		}
		key := macro.RecordKey{Country: o.Country, Year: o.Year}
		if seen[key] {
			continue
		}
		seen[key] = true
		points = append(points, racePoint{country: o.Country, year: o.Year, value: *o.Value})
	}
	if !known {
		return nil, core.NewValidationError("indicator", fmt.Sprintf("%q is not in the dataset", indicator))
	}

	if window != nil {
		keep := topByMax(points, RaceTopN)
		kept := points[:0:0]
		for _, p := range points {
			if keep[p.country] {
				kept = append(kept, p)
			}
		}
		points = kept
	}

	byYear := make(map[int][]racePoint)
	for _, p := range points {
		byYear[p.year] = append(byYear[p.year], p)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	table := &Table{
		Title:   fmt.Sprintf("%s over time by country - top %d", indicator, RaceTopN),
		Kind:    KindBarRace,
		Columns: []string{"year", "Country", indicator},
	}
	for _, y := range years {
		group := byYear[y]
		sortDesc(group)
		if len(group) > RaceTopN {
			group = group[:RaceTopN]
		}
		for _, p := range group {
			table.Rows = append(table.Rows, []interface{}{p.year, p.country, p.value})
		}
	}
	return table, nil
}

func topByMax(points []racePoint, n int) map[string]bool {
	best := make(map[string]float64)
	for _, p := range points {
		if cur, ok := best[p.country]; !ok || p.value > cur {
			best[p.country] = p.value
		}
	}
	ranked := make([]racePoint, 0, len(best))
	for c, v := range best {
		ranked = append(ranked, racePoint{country: c, value: v})
	}
	sortDesc(ranked)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	keep := make(map[string]bool, len(ranked))
	for _, p := range ranked {
		keep[p.country] = true
	}
	return keep
}

// sortDesc orders by value descending, ties by country name
func sortDesc(points []racePoint) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].value != points[j].value {
			return points[i].value > points[j].value
		}
		return points[i].country < points[j].country
	})
}
