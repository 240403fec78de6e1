package profiling

import (
	"testing"

	"macrolens/domain/macro"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileIndicator(t *testing.T) {
	p := ProfileIndicator("GDP", []float64{1, 2, 3, 4, 100}, 1)

	assert.Equal(t, 5, p.Present)
	assert.Equal(t, 1, p.Missing)
	assert.InDelta(t, 5.0/6.0, p.Coverage, 1e-9)
	assert.Equal(t, 22.0, p.Summary.Mean)
	assert.Equal(t, 3.0, p.Summary.Median)
	assert.Equal(t, 1.0, p.Summary.Min)
	assert.Equal(t, 100.0, p.Summary.Max)
	assert.Equal(t, 1, p.Outliers)
	assert.Greater(t, p.Skewness, 0.0)
	assert.Equal(t, 1.0, p.Variation)
}

func TestProfileIndicator_SmallAndEmpty(t *testing.T) {
	p := ProfileIndicator("GDP", []float64{5, 5}, 0)
	assert.Equal(t, 5.0, p.Summary.Q25)
	assert.Equal(t, 5.0, p.Summary.Q75)
	assert.Zero(t, p.Skewness)
	assert.Zero(t, p.Outliers)
	assert.Equal(t, 1.0, p.Coverage)

	empty := ProfileIndicator("GDP", nil, 3)
	assert.Zero(t, empty.Present)
	assert.Zero(t, empty.Coverage)
	assert.Equal(t, Summary{}, empty.Summary)
}

func TestProfileDataset(t *testing.T) {
	ds := &macro.SessionDataset{Observations: []macro.Observation{
		{Country: "Ghana", Year: 2010, Indicator: "Pop", Value: macro.Float(10)},
		{Country: "Kenya", Year: 2010, Indicator: "Pop", Value: macro.Float(20)},
		{Country: "Ghana", Year: 2011, Indicator: "Pop", Value: macro.Float(30)},
		{Country: "Ghana", Year: 2010, Indicator: "GDP"},
	}}

	all := ProfileDataset(ds, nil)
	require.Len(t, all, 2)
	assert.Equal(t, "GDP", all[0].Indicator)
	assert.Zero(t, all[0].Present)
	assert.Equal(t, 1, all[0].Missing)
	assert.Equal(t, "Pop", all[1].Indicator)
	assert.Equal(t, 20.0, all[1].Summary.Mean)

	year := 2011
	one := ProfileDataset(ds, &year)
	require.Len(t, one, 1)
	assert.Equal(t, 30.0, one[0].Summary.Mean)

	assert.Nil(t, ProfileDataset(nil, nil))
}
