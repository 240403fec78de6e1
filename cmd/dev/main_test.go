package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"macrolens/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeedData(t *testing.T) {
	cfg := testkit.DefaultMacroConfig()
	cfg.StartYear, cfg.EndYear = 2010, 2011
	path := filepath.Join(t.TempDir(), "seed.csv")

	var out bytes.Buffer
	require.NoError(t, generateSeedData(&out, cfg, path))
	assert.Contains(t, out.String(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1+len(testkit.DefaultCountries)*2*len(testkit.DefaultIndicators))
}

func TestRunSmokeTests(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSmokeTests(context.Background(), &out))
	assert.Contains(t, out.String(), "5/5 passed")
}

func TestDeterminism(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, testDeterminism(context.Background(), &out, 3, 7))
	assert.Contains(t, out.String(), "Determinism check passed")

	assert.Error(t, testDeterminism(context.Background(), &out, 1, 7))
}
