// Package frame reshapes long-format observations into wide per-indicator
// records keyed by (country, year) and back.
package frame

import (
	"sort"

	"macrolens/domain/macro"
)

// Frame is an ordered set of indicator columns over wide records sorted by
// country then year
type Frame struct {
	Indicators []string
	Records    []macro.WideRecord
}

type recordID struct {
	country string
	year    int
}

// Pivot builds a Frame from observations. When indicators is empty every
// indicator found is used, in first-seen order. Duplicate (country, year,
// indicator) facts resolve to the first non-null value in input order.
// Missing combinations are left out of Values.
func Pivot(observations []macro.Observation, indicators []string) (*Frame, error) {
	columns := indicators
	if len(columns) == 0 {
		columns = Indicators(observations)
	}
	wanted := make(map[string]bool, len(columns))
	for _, c := range columns {
		wanted[c] = true
	}

	index := make(map[recordID]int)
	var records []macro.WideRecord

	for _, obs := range observations {
		if err := obs.Validate(); err != nil {
			return nil, err
		}
		if !wanted[obs.Indicator] {
			continue
		}

		id := recordID{country: obs.Country, year: obs.Year}
		pos, exists := index[id]
		if !exists {
			pos = len(records)
			index[id] = pos
			records = append(records, macro.WideRecord{
				RecordKey: macro.RecordKey{
					Country:   obs.Country,
					Code:      obs.Code,
					Capital:   obs.Capital,
					Continent: obs.Continent,
					Year:      obs.Year,
				},
				Values: make(map[string]float64),
			})
		}

		if !obs.HasValue() {
			continue
		}
		if _, taken := records[pos].Values[obs.Indicator]; taken {
			continue
		}
		records[pos].Values[obs.Indicator] = *obs.Value
	}

	sortRecords(records)

	return &Frame{
		Indicators: append([]string(nil), columns...),
		Records:    records,
	}, nil
}

// Indicators lists distinct indicator names in first-seen order
func Indicators(observations []macro.Observation) []string {
	seen := make(map[string]bool)
	var out []string
	for _, obs := range observations {
		if !seen[obs.Indicator] {
			seen[obs.Indicator] = true
			out = append(out, obs.Indicator)
		}
	}
	return out
}

// Flatten turns the frame back into observations, one per record and column.
// Absent values become null observations so that re-pivoting yields the same
// frame.
func (f *Frame) Flatten() []macro.Observation {
	out := make([]macro.Observation, 0, len(f.Records)*len(f.Indicators))
	for _, rec := range f.Records {
		for _, ind := range f.Indicators {
			obs := macro.Observation{
				Country:   rec.Country,
				Code:      rec.Code,
				Capital:   rec.Capital,
				Continent: rec.Continent,
				Year:      rec.Year,
				Indicator: ind,
			}
			if v, ok := rec.Values[ind]; ok {
				obs.Value = macro.Float(v)
			}
			out = append(out, obs)
		}
	}
	return out
}

// ForYear returns a frame with only the records of the given year
func (f *Frame) ForYear(year int) *Frame {
	out := &Frame{Indicators: append([]string(nil), f.Indicators...)}
	for _, rec := range f.Records {
		if rec.Year == year {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// Column returns the values of one indicator aligned with Records; nil
// entries are missing values
func (f *Frame) Column(indicator string) []*float64 {
	col := make([]*float64, len(f.Records))
	for i, rec := range f.Records {
		if v, ok := rec.Values[indicator]; ok {
			col[i] = macro.Float(v)
		}
	}
	return col
}

// Len returns the number of records
func (f *Frame) Len() int {
	return len(f.Records)
}

func sortRecords(records []macro.WideRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Country != records[j].Country {
			return records[i].Country < records[j].Country
		}
		return records[i].Year < records[j].Year
	})
}
