package macro

import (
	"fmt"
	"sort"

	"macrolens/domain/core"
)

const (
	MaxClusterIndicators = 5
	MinClusters          = 1
	MaxClusters          = 10
)

// ClusterParams are the user-chosen inputs of a clustering run
type ClusterParams struct {
	Indicators []string `json:"indicators"`
	Year       int      `json:"year"`
	K          int      `json:"k"`
	Seed       int64    `json:"seed"`
}

// Validate checks the indicator count, duplicates and k bounds
func (p ClusterParams) Validate() error {
	if len(p.Indicators) == 0 {
		return core.NewClusterConfigError("no indicators selected")
	}
	if len(p.Indicators) > MaxClusterIndicators {
		return core.NewClusterConfigError(fmt.Sprintf("at most %d indicators allowed, got %d", MaxClusterIndicators, len(p.Indicators)))
	}
	seen := make(map[string]bool, len(p.Indicators))
	for _, ind := range p.Indicators {
		if ind == "" {
			return core.NewClusterConfigError("empty indicator name")
		}
		if seen[ind] {
			return core.NewClusterConfigError(fmt.Sprintf("indicator %q selected twice", ind))
		}
		seen[ind] = true
	}
	if p.K < MinClusters || p.K > MaxClusters {
		return core.NewClusterConfigError(fmt.Sprintf("k must be between %d and %d, got %d", MinClusters, MaxClusters, p.K))
	}
	return nil
}

// Fingerprint identifies the parameter set
func (p ClusterParams) Fingerprint() core.Hash {
	parts := []interface{}{p.Year, p.K, p.Seed}
	for _, ind := range p.Indicators {
		parts = append(parts, ind)
	}
	return core.HashParts(parts...)
}

// GroupLabel names the cluster with engine index i
func GroupLabel(i int) string {
	return fmt.Sprintf("Group %d", i+1)
}

// ClusterAssignment places one country in one group for the cluster year
type ClusterAssignment struct {
	Country   string             `json:"country_name"`
	Code      string             `json:"country_code"`
	Capital   string             `json:"capital"`
	Continent Continent          `json:"continent"`
	Year      int                `json:"year"`
	Label     string             `json:"cluster"`
	Values    map[string]float64 `json:"values"` // imputed inputs of the fit
}

// ClusterRun is the complete output of one clustering pass
type ClusterRun struct {
	ID          core.RunID          `json:"id"`
	Params      ClusterParams       `json:"params"`
	Assignments []ClusterAssignment `json:"assignments"`
	Inertia     float64             `json:"inertia"`
	// ColumnMeans are the imputation values used per indicator
	ColumnMeans   map[string]float64 `json:"column_means"`
	ImputedValues int                `json:"imputed_values"`
	Fingerprint   core.Hash          `json:"fingerprint"`
	Partition     core.Hash          `json:"partition"`
}

// LabelOf returns the label for a country, or "" if it was not clustered
func (r *ClusterRun) LabelOf(country string) string {
	if r == nil {
		return ""
	}
	for _, a := range r.Assignments {
		if a.Country == country {
			return a.Label
		}
	}
	return ""
}

// Labels returns the distinct labels in ascending group order
func (r *ClusterRun) Labels() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool)
	var labels []string
	for _, a := range r.Assignments {
		if !seen[a.Label] {
			seen[a.Label] = true
			labels = append(labels, a.Label)
		}
	}
	sort.Slice(labels, func(i, j int) bool { return labelIndex(labels[i]) < labelIndex(labels[j]) })
	return labels
}

// Groups returns country members per label
func (r *ClusterRun) Groups() map[string][]string {
	groups := make(map[string][]string)
	if r == nil {
		return groups
	}
	for _, a := range r.Assignments {
		groups[a.Label] = append(groups[a.Label], a.Country)
	}
	return groups
}

func labelIndex(label string) int {
	var n int
	if _, err := fmt.Sscanf(label, "Group %d", &n); err != nil {
		return 1 << 30
	}
	return n
}

// InertiaPoint is one point of an elbow curve
type InertiaPoint struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
}
