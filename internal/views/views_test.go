package views

import (
	"errors"
	"fmt"
	"testing"

	"macrolens/domain/core"
	"macrolens/domain/macro"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raceData(countries, years int) *macro.SessionDataset {
	ds := &macro.SessionDataset{Scope: macro.Scope{StartYear: 2000, EndYear: 2000 + years - 1}}
	for y := 0; y < years; y++ {
		for c := 0; c < countries; c++ {
			ds.Observations = append(ds.Observations, macro.Observation{
				Country:   fmt.Sprintf("C%02d", c),
				Continent: macro.Asia,
				Year:      2000 + y,
				Indicator: "Pop",
				Value:     macro.Float(float64(c*10 + y)),
			})
		}
	}
	return ds
}

func TestRace_TopTwentyPerYear(t *testing.T) {
	table, err := Race(raceData(25, 2), "Pop", nil)
	require.NoError(t, err)

	assert.Equal(t, "Pop over time by country - top 20", table.Title)
	assert.Equal(t, []string{"year", "Country", "Pop"}, table.Columns)
	require.Equal(t, 40, table.Len())
	assert.Equal(t, []interface{}{2000, "C24", 240.0}, table.Rows[0])
	assert.Equal(t, "C05", table.Rows[19][1])
	assert.Equal(t, 2001, table.Rows[20][0])
}

func TestRace_WindowFixesCountrySet(t *testing.T) {
	ds := raceData(3, 3)
	// X spikes only in 2000, outside the window
	ds.Observations = append(ds.Observations, macro.Observation{Country: "X", Continent: macro.Asia, Year: 2000, Indicator: "Pop", Value: macro.Float(1e6)})

	table, err := Race(ds, "Pop", &YearWindow{Start: 2001, End: 2002})
	require.NoError(t, err)
	assert.NotContains(t, table.Column("Country"), "X")
	assert.Equal(t, 6, table.Len())
	for _, y := range table.Column("year") {
		assert.GreaterOrEqual(t, y.(int), 2001)
	}
}

func TestRace_Errors(t *testing.T) {
	_, err := Race(raceData(2, 1), "GDP", nil)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	_, err = Race(raceData(2, 1), "Pop", &YearWindow{Start: 2005, End: 2001})
	assert.True(t, errors.Is(err, core.ErrInvalidYearRange))
}

func sampleRun() *macro.ClusterRun {
	return &macro.ClusterRun{
		Params:  macro.ClusterParams{Indicators: []string{"GDP"}, Year: 2010, K: 2},
		Inertia: 12345.678,
		Assignments: []macro.ClusterAssignment{
			{Country: "France", Code: "FRA", Label: "Group 1", Values: map[string]float64{"GDP": 10}},
			{Country: "Ghana", Code: "GHA", Label: "Group 2", Values: map[string]float64{"GDP": 1}},
		},
	}
}

func TestClusterMap(t *testing.T) {
	table, err := ClusterMap(sampleRun())
	require.NoError(t, err)
	assert.Contains(t, table.Title, "Inertia: 12,345.68")
	assert.Contains(t, table.Title, "Number of clusters: 2")
	assert.Equal(t, []string{"Country Name", "Country Code", "Cluster", "GDP"}, table.Columns)
	assert.Equal(t, []interface{}{"Ghana", "GHA", "Group 2", 1.0}, table.Rows[1])

	_, err = ClusterMap(nil)
	assert.True(t, errors.Is(err, core.ErrNoActiveClustering))
}

func sampleView() *macro.PeerView {
	row := func(country string, year int, gdp *float64, label string) macro.PeerRow {
		r := macro.PeerRow{
			WideRecord: macro.WideRecord{
				RecordKey: macro.RecordKey{Country: country, Continent: macro.Europe, Capital: "cap", Year: year},
				Values:    map[string]float64{},
			},
			Cluster: label,
		}
		if gdp != nil {
			r.Values["GDP"] = *gdp
		}
		return r
	}
	return &macro.PeerView{
		Indicators: []string{"GDP"},
		Rows: []macro.PeerRow{
			row("France", 2010, macro.Float(10.26), "Group 1"),
			row("France", 2011, nil, "Group 1"),
			row("Ghana", 2010, macro.Float(1), "Group 2"),
			row("Spain", 2010, macro.Float(9.04), "Group 1"),
			row("Tonga", 2010, macro.Float(3), ""),
		},
	}
}

func TestExplore(t *testing.T) {
	table, err := Explore(sampleView(), "Group 1", "GDP", nil)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, []interface{}{"France", 2010, "Group 1", "cap", "Europe", 10.3}, table.Rows[0])
	assert.Nil(t, table.Rows[1][5])
	assert.Equal(t, 9.0, table.Rows[2][5])

	year := 2011
	table, err = Explore(sampleView(), "Group 1", "GDP", &year)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = Explore(sampleView(), "Group 1", "Pop", nil)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestPeerSeriesAndMap(t *testing.T) {
	set := macro.PeerSet{Focus: "France", Mode: macro.BenchmarkCluster, Cluster: "Group 1", Countries: []string{"France", "Spain"}}

	series, err := PeerSeries(sampleView(), set, "GDP", "")
	require.NoError(t, err)
	assert.Equal(t, KindLine, series.Kind)
	assert.Equal(t, "Peer comparison for France based on GDP", series.Title)
	require.Equal(t, 3, series.Len())
	assert.Equal(t, true, series.Rows[0][3])
	assert.Equal(t, false, series.Rows[2][3])

	_, err = PeerSeries(sampleView(), set, "GDP", "pie")
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	m := PeerMap(sampleView(), set)
	require.Equal(t, 4, m.Len())
	widths := map[interface{}]interface{}{}
	for _, row := range m.Rows {
		widths[row[0]] = row[2]
	}
	assert.Equal(t, PeerBorderWidth, widths["Spain"])
	assert.Equal(t, OtherBorderWidth, widths["Tonga"])
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "0.00", thousands(0))
	assert.Equal(t, "999.50", thousands(999.5))
	assert.Equal(t, "1,234,567.00", thousands(1234567))
	assert.Equal(t, "-1,000.25", thousands(-1000.25))
}
