package testkit

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"macrolens/domain/macro"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateObservations_Shape(t *testing.T) {
	cfg := DefaultMacroConfig()
	cfg.StartYear, cfg.EndYear = 2010, 2012
	cfg.MissingRate = 0

	obs, err := NewMacroDataGenerator(cfg).GenerateObservations()
	require.NoError(t, err)
	assert.Len(t, obs, len(DefaultCountries)*3*len(DefaultIndicators))

	for _, o := range obs {
		require.NoError(t, o.Validate())
		require.NotNil(t, o.Value)
		assert.GreaterOrEqual(t, o.Year, 2010)
		assert.LessOrEqual(t, o.Year, 2012)
	}
	assert.Equal(t, "Nigeria", obs[0].Country)
	assert.Equal(t, macro.Africa, obs[0].Continent)
}

func TestGenerateObservations_Deterministic(t *testing.T) {
	a, err := NewMacroDataGenerator(DefaultMacroConfig()).GenerateObservations()
	require.NoError(t, err)
	b, err := NewMacroDataGenerator(DefaultMacroConfig()).GenerateObservations()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := DefaultMacroConfig()
	other.Seed = 7
	c, err := NewMacroDataGenerator(other).GenerateObservations()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateObservations_Missing(t *testing.T) {
	cfg := DefaultMacroConfig()
	cfg.MissingRate = 1
	obs, err := NewMacroDataGenerator(cfg).GenerateObservations()
	require.NoError(t, err)
	for _, o := range obs {
		assert.Nil(t, o.Value)
	}

	cfg.StartYear, cfg.EndYear = 2020, 2010
	_, err = NewMacroDataGenerator(cfg).GenerateObservations()
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	obs := []macro.Observation{
		{Country: "Ghana", Code: "GHA", Capital: "Accra", Continent: macro.Africa, Year: 2010, Indicator: "GDP", Value: macro.Float(1.5)},
		{Country: "Ghana", Code: "GHA", Capital: "Accra", Continent: macro.Africa, Year: 2011, Indicator: "GDP"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, obs))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, "1.5", records[1][6])
	assert.Equal(t, "..", records[2][6])
}

func TestMemorySource(t *testing.T) {
	src, err := NewGeneratedSource(1)
	require.NoError(t, err)
	assert.Equal(t, "memory", src.Describe())

	obs, err := src.LoadObservations(context.Background())
	require.NoError(t, err)
	obs[0].Country = "changed"
	again, err := src.LoadObservations(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Country)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.LoadObservations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
