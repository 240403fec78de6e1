package migration

import (
	"strings"
	"testing"

	"macrolens/domain/macro"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleObservations(n int) []macro.Observation {
	obs := make([]macro.Observation, n)
	for i := range obs {
		obs[i] = macro.Observation{Country: "Ghana", Continent: macro.Africa, Year: 2000 + i, Indicator: "GDP", Value: macro.Float(float64(i))}
	}
	return obs
}

func TestBatches(t *testing.T) {
	batches := Batches(sampleObservations(7), 3)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[2], 1)
	assert.Equal(t, 2006, batches[2][0].Year)

	assert.Empty(t, Batches(nil, 3))
	assert.Len(t, Batches(sampleObservations(2), 0), 1)
}

func TestInsertStatement(t *testing.T) {
	obs := sampleObservations(2)
	obs[1].Value = nil
	obs[1].Code = "GHA"

	query, args := InsertStatement(obs)
	assert.True(t, strings.HasPrefix(query, "INSERT INTO observations"))
	assert.Contains(t, query, "($8, $9, $10, $11, $12, $13, $14)")
	assert.Contains(t, query, "ON CONFLICT")
	require.Len(t, args, 14)

	assert.Nil(t, args[1], "empty code is stored as NULL")
	assert.Equal(t, "GHA", args[8])
	assert.Equal(t, "Africa", args[3])
	assert.Equal(t, 0.0, args[6])
	assert.Nil(t, args[13], "missing value is stored as NULL")
}

func TestRunnerVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", NewRunner().Version())
}
