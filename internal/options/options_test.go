package options

import (
	"context"
	"testing"

	"macrolens/adapters/kmeans"
	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/internal"
	"macrolens/internal/cluster"
	"macrolens/internal/config"
	"macrolens/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func base() []macro.Observation {
	o := func(country string, continent macro.Continent, year int, ind string, v float64) macro.Observation {
		return macro.Observation{Country: country, Continent: continent, Year: year, Indicator: ind, Value: macro.Float(v)}
	}
	return []macro.Observation{
		o("Ghana", macro.Africa, 1999, "Pop", 1),
		o("Ghana", macro.Africa, 2010, "GDP (current US$)", 1),
		o("Kenya", macro.Africa, 2010, "GDP (current US$)", 2),
		o("France", macro.Europe, 2010, "GDP (current US$)", 3),
		o("France", macro.Europe, 2011, "Pop", 4),
		o("Japan", macro.Asia, 2012, "GDP (current US$)", 5),
	}
}

func TestBuild(t *testing.T) {
	pipeline := cluster.NewPipeline(kmeans.NewEngine(kmeans.DefaultConfig()), internal.NewNopLogger())
	g := session.NewGraph(base(), pipeline, internal.NewNopLogger())

	st, err := g.New(context.Background(), core.NewSessionID(), macro.Scope{StartYear: 2010, EndYear: 2011, Continents: []macro.Continent{macro.Africa, macro.Europe}})
	require.NoError(t, err)

	lists := Build(st, base(), config.DefaultDefaults())
	assert.Equal(t, macro.AllContinents, lists.Continents)
	assert.Equal(t, [2]int{1999, 2012}, lists.YearBounds)
	assert.Equal(t, []int{2010, 2011}, lists.Years)
	assert.Equal(t, []string{"GDP (current US$)", "Pop"}, lists.Indicators)
	assert.Equal(t, []string{"France", "Ghana", "Kenya"}, lists.Countries)
	assert.Empty(t, lists.Groups)

	assert.Equal(t, "GDP (current US$)", lists.Defaults.PeerIndicator)
	assert.Equal(t, "GDP (current US$)", lists.Defaults.RaceIndicator, "missing default falls back to the first indicator")
	assert.Equal(t, []string{"GDP (current US$)"}, lists.Defaults.ClusterIndicators)
	assert.Equal(t, 2010, lists.Defaults.ClusterYear)
	assert.Equal(t, 5, lists.Defaults.K)

	st, err = g.WithClustering(context.Background(), st, macro.ClusterParams{Indicators: []string{"GDP (current US$)"}, Year: 2010, K: 2, Seed: 1})
	require.NoError(t, err)

	lists = Build(st, base(), config.DefaultDefaults())
	assert.Equal(t, []string{"Group 1", "Group 2"}, lists.Groups)
	assert.Equal(t, "Group 1", lists.Defaults.Group)
	assert.Equal(t, 2, lists.Defaults.K)
}
