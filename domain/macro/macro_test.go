package macro

import (
	"errors"
	"math"
	"testing"

	"macrolens/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContinent(t *testing.T) {
	c, err := ParseContinent(" n. america ")
	require.NoError(t, err)
	assert.Equal(t, NorthAmerica, c)

	_, err = ParseContinent("Antarctica")
	assert.True(t, core.IsValidationError(err))
}

func TestObservationValidate(t *testing.T) {
	ok := Observation{Country: "Ghana", Indicator: "GDP", Year: 2010, Value: Float(1)}
	require.NoError(t, ok.Validate())
	assert.True(t, ok.HasValue())

	missing := ok
	missing.Value = nil
	require.NoError(t, missing.Validate())
	assert.False(t, missing.HasValue())

	tests := []struct {
		name string
		obs  Observation
	}{
		{"no country", Observation{Indicator: "GDP"}},
		{"no indicator", Observation{Country: "Ghana"}},
		{"nan", Observation{Country: "Ghana", Indicator: "GDP", Value: Float(math.NaN())}},
		{"inf", Observation{Country: "Ghana", Indicator: "GDP", Value: Float(math.Inf(1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obs.Validate()
			assert.True(t, errors.Is(err, core.ErrMalformedObservation), "got %v", err)
		})
	}
}

func TestScopeYearsAndFingerprint(t *testing.T) {
	s := Scope{StartYear: 2000, EndYear: 2002, Continents: []Continent{Africa}}
	assert.Equal(t, []int{2000, 2001, 2002}, s.Years())
	assert.Nil(t, Scope{StartYear: 2002, EndYear: 2000}.Years())

	same := Scope{StartYear: 2000, EndYear: 2002, Continents: []Continent{Africa}}
	other := Scope{StartYear: 2000, EndYear: 2002, Continents: []Continent{Europe}}
	assert.Equal(t, s.Fingerprint(), same.Fingerprint())
	assert.NotEqual(t, s.Fingerprint(), other.Fingerprint())
}

func TestClusterParamsValidate(t *testing.T) {
	valid := ClusterParams{Indicators: []string{"GDP", "Pop"}, Year: 2010, K: 3}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		params ClusterParams
	}{
		{"no indicators", ClusterParams{K: 2}},
		{"too many", ClusterParams{Indicators: []string{"a", "b", "c", "d", "e", "f"}, K: 2}},
		{"duplicate", ClusterParams{Indicators: []string{"a", "a"}, K: 2}},
		{"empty name", ClusterParams{Indicators: []string{""}, K: 2}},
		{"k zero", ClusterParams{Indicators: []string{"a"}, K: 0}},
		{"k eleven", ClusterParams{Indicators: []string{"a"}, K: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			assert.True(t, errors.Is(err, core.ErrInvalidClusterConfig), "got %v", err)
		})
	}
}

func TestClusterParamsFingerprint(t *testing.T) {
	a := ClusterParams{Indicators: []string{"GDP"}, Year: 2010, K: 3, Seed: 1}
	b := a
	b.Seed = 2
	assert.Equal(t, a.Fingerprint(), ClusterParams{Indicators: []string{"GDP"}, Year: 2010, K: 3, Seed: 1}.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestClusterRunLabels(t *testing.T) {
	assert.Equal(t, "Group 1", GroupLabel(0))

	run := &ClusterRun{Assignments: []ClusterAssignment{
		{Country: "France", Label: GroupLabel(9)},
		{Country: "Ghana", Label: GroupLabel(1)},
		{Country: "Kenya", Label: GroupLabel(1)},
		{Country: "Spain", Label: GroupLabel(0)},
	}}
	assert.Equal(t, []string{"Group 1", "Group 2", "Group 10"}, run.Labels())
	assert.Equal(t, []string{"Ghana", "Kenya"}, run.Groups()["Group 2"])
	assert.Equal(t, "Group 10", run.LabelOf("France"))
	assert.Empty(t, run.LabelOf("Peru"))

	var none *ClusterRun
	assert.Nil(t, none.Labels())
	assert.Empty(t, none.Groups())
	assert.Empty(t, none.LabelOf("France"))
}

func TestParseBenchmarkMode(t *testing.T) {
	for in, want := range map[string]BenchmarkMode{
		"cluster":           BenchmarkCluster,
		"Cluster-Benchmark": BenchmarkCluster,
		" custom ":          BenchmarkCustom,
		"custom-benchmark":  BenchmarkCustom,
	} {
		got, err := ParseBenchmarkMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBenchmarkMode("nearest")
	assert.True(t, core.IsValidationError(err))
}

func TestPeerView(t *testing.T) {
	row := func(country string, year int, cluster string) PeerRow {
		return PeerRow{WideRecord: WideRecord{RecordKey: RecordKey{Country: country, Year: year}, Values: map[string]float64{"GDP": 1}}, Cluster: cluster}
	}
	view := &PeerView{Rows: []PeerRow{row("Ghana", 2000, "Group 1"), row("Ghana", 2001, "Group 1"), row("Peru", 2000, "")}}

	assert.Equal(t, []string{"Ghana", "Peru"}, view.Countries())

	label, present := view.LabelOf("Ghana")
	assert.True(t, present)
	assert.Equal(t, "Group 1", label)

	label, present = view.LabelOf("Peru")
	assert.True(t, present)
	assert.Empty(t, label)
	assert.False(t, view.Rows[2].HasCluster())

	_, present = view.LabelOf("Chad")
	assert.False(t, present)

	v, ok := view.Rows[0].Value("GDP")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = view.Rows[0].Value("Pop")
	assert.False(t, ok)

	set := PeerSet{Countries: []string{"Ghana"}}
	assert.True(t, set.Contains("Ghana"))
	assert.False(t, set.Contains("Peru"))
}
