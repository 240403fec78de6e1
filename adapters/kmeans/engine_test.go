package kmeans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func blobs() *mat.Dense {
	return mat.NewDense(6, 2, []float64{
		0.0, 0.1,
		0.2, 0.0,
		0.1, 0.2,
		10.0, 10.1,
		10.2, 10.0,
		10.1, 9.9,
	})
}

func TestFit_SeparatesBlobs(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	fit, err := engine.Fit(context.Background(), blobs(), 2, 7)
	require.NoError(t, err)
	require.Len(t, fit.Labels, 6)

	assert.Equal(t, fit.Labels[0], fit.Labels[1])
	assert.Equal(t, fit.Labels[0], fit.Labels[2])
	assert.Equal(t, fit.Labels[3], fit.Labels[4])
	assert.Equal(t, fit.Labels[3], fit.Labels[5])
	assert.NotEqual(t, fit.Labels[0], fit.Labels[3])
	assert.Less(t, fit.Inertia, 1.0)
}

func TestFit_SameSeedSameLabels(t *testing.T) {
	engine := NewEngine(Config{NInit: 3})

	first, err := engine.Fit(context.Background(), blobs(), 3, 99)
	require.NoError(t, err)
	second, err := engine.Fit(context.Background(), blobs(), 3, 99)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.InDelta(t, first.Inertia, second.Inertia, 1e-12)
}

func TestFit_SingleClusterInertiaIsTotalSumOfSquares(t *testing.T) {
	data := mat.NewDense(3, 1, []float64{1, 2, 3})

	fit, err := NewEngine(DefaultConfig()).Fit(context.Background(), data, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0}, fit.Labels)
	assert.InDelta(t, 2.0, fit.Inertia, 1e-9)
}

func TestFit_IdenticalRows(t *testing.T) {
	data := mat.NewDense(3, 2, []float64{1, 1, 1, 1, 1, 1})

	fit, err := NewEngine(DefaultConfig()).Fit(context.Background(), data, 2, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, fit.Inertia, 1e-12)
}

func TestFit_RejectsBadK(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	_, err := engine.Fit(context.Background(), blobs(), 0, 1)
	assert.Error(t, err)

	_, err = engine.Fit(context.Background(), blobs(), 7, 1)
	assert.Error(t, err)
}

func TestFit_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(DefaultConfig()).Fit(ctx, blobs(), 2, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEngine_FillsDefaults(t *testing.T) {
	e := NewEngine(Config{})
	assert.Equal(t, DefaultConfig(), e.config)
}
