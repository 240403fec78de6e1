package profiling

import (
	"math"
	"sort"

	"macrolens/domain/macro"

	"github.com/montanaflynn/stats"
)

// Summary holds the basic statistics of one value column
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// IndicatorProfile describes the distribution of one indicator in a dataset
type IndicatorProfile struct {
	Indicator string  `json:"indicator"`
	Present   int     `json:"present"`
	Missing   int     `json:"missing"`
	Coverage  float64 `json:"coverage"`
	Summary   Summary `json:"summary"`
	Skewness  float64 `json:"skewness"`
	Outliers  int     `json:"outliers"`
	// Variation is the coefficient of variation, capped at 1
	Variation float64 `json:"variation"`
}

// ProfileDataset profiles every indicator of ds, sorted by name. A non-nil
// year restricts the profile to that year.
func ProfileDataset(ds *macro.SessionDataset, year *int) []IndicatorProfile {
	if ds == nil {
		return nil
	}

	values := make(map[string][]float64)
	missing := make(map[string]int)
	for _, obs := range ds.Observations {
		if year != nil && obs.Year != *year {
			continue
		}
		if _, ok := values[obs.Indicator]; !ok {
			values[obs.Indicator] = nil
		}
		if obs.Value == nil {
			missing[obs.Indicator]++
			continue
		}
		values[obs.Indicator] = append(values[obs.Indicator], *obs.Value)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]IndicatorProfile, 0, len(names))
	for _, name := range names {
		out = append(out, ProfileIndicator(name, values[name], missing[name]))
	}
	return out
}

// ProfileIndicator computes the profile of the present values of one
// indicator. missing counts the null cells left out of data.
func ProfileIndicator(name string, data []float64, missing int) IndicatorProfile {
	p := IndicatorProfile{Indicator: name, Present: len(data), Missing: missing}
	if total := len(data) + missing; total > 0 {
		p.Coverage = float64(len(data)) / float64(total)
	}
	if len(data) == 0 {
		return p
	}

	summary, err := summarize(data)
	if err != nil {
		return p
	}
	p.Summary = summary
	p.Skewness = calculateSkewness(data, summary.Mean, summary.StdDev)
	p.Outliers = detectOutliers(data, summary.Q25, summary.Q75)
	p.Variation = calculateVariation(summary.Mean, summary.StdDev)
	return p
}

func summarize(data []float64) (Summary, error) {
	var s Summary
	var err error

	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}

	// quartiles need at least four points
	s.Q25, s.Q75 = s.Min, s.Max
	if len(data) >= 4 {
		if s.Q25, err = stats.Percentile(data, 25); err != nil {
			return s, err
		}
		if s.Q75, err = stats.Percentile(data, 75); err != nil {
			return s, err
		}
	}
	return s, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// detectOutliers counts values outside 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	if len(data) < 4 {
		return 0
	}
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}

func calculateVariation(mean, stdDev float64) float64 {
	if mean == 0 {
		return 1.0
	}
	return math.Min(stdDev/math.Abs(mean), 1.0)
}
