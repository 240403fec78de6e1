package config

import (
	"os"
	"path/filepath"
	"testing"

	"macrolens/domain/macro"
	"macrolens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_FILE", "macro.xlsx")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("DEFAULTS_FILE", "")
	t.Setenv("CLUSTER_SEED", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "macro.xlsx", cfg.Data.File)
	assert.Equal(t, int64(42), cfg.Cluster.Seed)
	assert.Equal(t, 10, cfg.Cluster.NInit)
	assert.Equal(t, 300, cfg.Cluster.MaxIter)
	assert.Equal(t, 1e-4, cfg.Cluster.Tolerance)
	assert.Equal(t, DefaultDefaults(), cfg.Defaults)

	scope, err := cfg.Defaults.Scope()
	require.NoError(t, err)
	assert.Equal(t, []macro.Continent{macro.Africa, macro.Europe}, scope.Continents)
}

func TestLoad_RequiresSource(t *testing.T) {
	t.Setenv("DATA_FILE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DEFAULTS_FILE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_DefaultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_year: 2005\nk: 3\ncontinents: [Asia]\n"), 0o644))

	t.Setenv("DATA_FILE", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/macro")
	t.Setenv("DEFAULTS_FILE", path)
	t.Setenv("KMEANS_N_INIT", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2005, cfg.Defaults.StartYear)
	assert.Equal(t, 2020, cfg.Defaults.EndYear)
	assert.Equal(t, 3, cfg.Defaults.K)
	assert.Equal(t, []string{"Asia"}, cfg.Defaults.Continents)
	assert.Equal(t, "Population, total", cfg.Defaults.RaceIndicator)
	assert.Equal(t, 4, cfg.Cluster.NInit)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidDefaults(t *testing.T) {
	cases := map[string]string{
		"bad continent": "continents: [Atlantis]\n",
		"bad range":     "start_year: 2030\n",
		"bad k":         "k: 11\n",
		"not yaml":      "k: [\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "defaults.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			t.Setenv("DATA_FILE", "macro.csv")
			t.Setenv("DEFAULTS_FILE", path)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
