// Package views turns session data into plain chart tables. Rendering is
// left to the caller.
package views

import (
	"math"
	"strconv"
	"strings"
)

// Table is a titled grid of values handed to a chart renderer
type Table struct {
	Title   string          `json:"title"`
	Kind    string          `json:"kind,omitempty"`
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Chart kinds
const (
	KindBarRace    = "bar_race"
	KindChoropleth = "choropleth"
	KindTable      = "table"
	KindLine       = "line"
	KindHeatmap    = "heatmap"
)

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the values of column name, or nil when absent
func (t *Table) Column(name string) []interface{} {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// thousands formats v with two decimals and comma grouping
func thousands(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
