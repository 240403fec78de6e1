package macro

import (
	"fmt"
	"math"
	"strings"

	"macrolens/domain/core"
)

// Continent is one of the six continent groupings used by the source data
type Continent string

const (
	Africa       Continent = "Africa"
	Asia         Continent = "Asia"
	Australia    Continent = "Australia"
	Europe       Continent = "Europe"
	NorthAmerica Continent = "N. America"
	SouthAmerica Continent = "S. America"
)

// AllContinents lists continents in display order
var AllContinents = []Continent{Africa, Asia, Australia, Europe, NorthAmerica, SouthAmerica}

// ParseContinent matches a continent name case-insensitively
func ParseContinent(s string) (Continent, error) {
	trimmed := strings.TrimSpace(s)
	for _, c := range AllContinents {
		if strings.EqualFold(string(c), trimmed) {
			return c, nil
		}
	}
	return "", core.NewValidationError("continent", fmt.Sprintf("unknown value %q", s))
}

// Observation is one (country, year, indicator, value) fact
type Observation struct {
	Country   string    `json:"country_name"`
	Code      string    `json:"country_code"`
	Capital   string    `json:"capital"`
	Continent Continent `json:"continent"`
	Year      int       `json:"year"`
	Indicator string    `json:"series_name"`
	Value     *float64  `json:"value"` // nil when missing
}

// HasValue reports whether the observation carries a value
func (o Observation) HasValue() bool {
	return o.Value != nil
}

// Validate rejects observations that would poison downstream numeric work
func (o Observation) Validate() error {
	if strings.TrimSpace(o.Country) == "" {
		return core.NewMalformedObservationError(0, "Country Name", "is empty")
	}
	if strings.TrimSpace(o.Indicator) == "" {
		return core.NewMalformedObservationError(0, "Series Name", fmt.Sprintf("is empty for %s", o.Country))
	}
	if o.Value != nil && (math.IsNaN(*o.Value) || math.IsInf(*o.Value, 0)) {
		return core.NewMalformedObservationError(0, "value",
			fmt.Sprintf("is not finite for %s/%d/%s", o.Country, o.Year, o.Indicator))
	}
	return nil
}

// Float returns a pointer to v, for building observations
func Float(v float64) *float64 {
	return &v
}

// Scope is the year range and continent set a session works on
type Scope struct {
	StartYear  int         `json:"start_year" yaml:"start_year"`
	EndYear    int         `json:"end_year" yaml:"end_year"`
	Continents []Continent `json:"continents" yaml:"continents"`
}

// Years lists every year in the scope, inclusive
func (s Scope) Years() []int {
	if s.EndYear < s.StartYear {
		return nil
	}
	years := make([]int, 0, s.EndYear-s.StartYear+1)
	for y := s.StartYear; y <= s.EndYear; y++ {
		years = append(years, y)
	}
	return years
}

// Fingerprint identifies the scope for recomputation caching
func (s Scope) Fingerprint() core.Hash {
	parts := []interface{}{s.StartYear, s.EndYear}
	for _, c := range s.Continents {
		parts = append(parts, c)
	}
	return core.HashParts(parts...)
}

// SessionDataset is the filtered observation set of one session.
// It is never mutated after construction.
type SessionDataset struct {
	Scope        Scope         `json:"scope"`
	Observations []Observation `json:"-"`
}

// Len returns the number of observations
func (d *SessionDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Observations)
}
