package macro

// RecordKey identifies a wide row. Code, Capital and Continent are carried
// attributes taken from the first observation seen for (Country, Year).
type RecordKey struct {
	Country   string    `json:"country_name"`
	Code      string    `json:"country_code"`
	Capital   string    `json:"capital"`
	Continent Continent `json:"continent"`
	Year      int       `json:"year"`
}

// WideRecord is one (country, year) row with one value per indicator.
// A missing indicator has no entry in Values.
type WideRecord struct {
	RecordKey
	Values map[string]float64 `json:"values"`
}

// Value returns the indicator value and whether it is present
func (r WideRecord) Value(indicator string) (float64, bool) {
	v, ok := r.Values[indicator]
	return v, ok
}

// PeerRow is a wide record tagged with the active cluster label
type PeerRow struct {
	WideRecord
	Cluster string `json:"cluster,omitempty"` // empty when unassigned
}

// HasCluster reports whether the row's country was assigned a group
func (r PeerRow) HasCluster() bool {
	return r.Cluster != ""
}

// PeerView is the joined base for peer comparison and explore tables
type PeerView struct {
	Indicators []string  `json:"indicators"`
	Rows       []PeerRow `json:"rows"`
}

// Countries lists countries in row order, without duplicates
func (v *PeerView) Countries() []string {
	if v == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range v.Rows {
		if !seen[r.Country] {
			seen[r.Country] = true
			out = append(out, r.Country)
		}
	}
	return out
}

// LabelOf returns the cluster label of a country and whether the country is
// present in the view at all
func (v *PeerView) LabelOf(country string) (label string, present bool) {
	if v == nil {
		return "", false
	}
	for _, r := range v.Rows {
		if r.Country == country {
			return r.Cluster, true
		}
	}
	return "", false
}
