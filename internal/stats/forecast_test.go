package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateForecast_ProjectsTrend(t *testing.T) {
	points, err := GenerateForecast([]float64{10, 20, 30, 40}, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	expected := []float64{50, 60, 70}
	for i, p := range points {
		assert.Equal(t, i+1, p.Period)
		assert.InDelta(t, expected[i], p.Value, 1e-9)
	}
	assert.Equal(t, 1.0, points[0].Confidence)
	assert.InDelta(t, 0.9, points[1].Confidence, 1e-12)
	assert.InDelta(t, 0.81, points[2].Confidence, 1e-12)
}

func TestGenerateForecast_ClampsAtZero(t *testing.T) {
	points, err := GenerateForecast([]float64{30, 20, 10}, 4)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, points[0].Value, 1e-9)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Value, 0.0)
	}
}

func TestGenerateForecastWithConfig_AllowsNegative(t *testing.T) {
	cfg := DefaultForecastConfig(2)
	cfg.NonNegative = false

	points, err := GenerateForecastWithConfig([]float64{30, 20, 10}, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, points[0].Value, 1e-9)
	assert.InDelta(t, -10.0, points[1].Value, 1e-9)
}

func TestGenerateForecast_ConfidenceDecreases(t *testing.T) {
	points, err := GenerateForecast([]float64{5, 6, 7}, 12)
	require.NoError(t, err)

	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i].Confidence, points[i-1].Confidence)
		assert.GreaterOrEqual(t, points[i].Confidence, 0.0)
		assert.LessOrEqual(t, points[i].Confidence, 1.0)
	}
}

func TestGenerateForecast_ShortSeries(t *testing.T) {
	points, err := GenerateForecast(nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, points[0].Value)

	points, err = GenerateForecast([]float64{12}, 2)
	require.NoError(t, err)
	assert.Equal(t, 12.0, points[1].Value)
}

func TestGenerateForecast_InvalidPeriods(t *testing.T) {
	_, err := GenerateForecast([]float64{1, 2, 3}, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	cfg := DefaultForecastConfig(3)
	cfg.Decay = 1.5
	_, err = GenerateForecastWithConfig([]float64{1, 2, 3}, cfg)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestGenerateForecast_HugeMagnitudes(t *testing.T) {
	points, err := GenerateForecast([]float64{1e308, 1e308, 0, 1e308}, 2)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.InEpsilon(t, 5e307, points[0].Value, 1e-9)
	assert.InEpsilon(t, 4e307, points[1].Value, 1e-9)
}

func TestGenerateForecast_ProjectionOverflow(t *testing.T) {
	_, err := GenerateForecast([]float64{0, math.MaxFloat64}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var inv *InvalidInputError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "values", inv.Arg)
}
