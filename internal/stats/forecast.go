package stats

import (
	"fmt"
	"math"
)

const (
	// DefaultForecastPeriods is the horizon used by the trend aggregators.
	DefaultForecastPeriods = 3
	// DefaultConfidenceDecay is the per-period multiplier applied to forecast confidence.
	DefaultConfidenceDecay = 0.9
)

// ForecastPoint is a single projected value. Period is 1-based.
type ForecastPoint struct {
	Period     int     `json:"period"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ForecastConfig controls trend projection.
type ForecastConfig struct {
	Periods int
	// NonNegative clamps projected values at 0. Revenue, assets, member counts and
	// transaction volumes cannot go below zero even when a falling trend would.
	NonNegative bool
	// Decay is the geometric confidence multiplier, in (0, 1). Period p has confidence Decay^(p-1).
	Decay float64
}

// DefaultForecastConfig returns the configuration GenerateForecast uses for a given horizon.
func DefaultForecastConfig(periods int) ForecastConfig {
	return ForecastConfig{
		Periods:     periods,
		NonNegative: true,
		Decay:       DefaultConfidenceDecay,
	}
}

// GenerateForecast projects a linear trend `periods` steps past the end of the series.
// Values are clamped at 0 and confidence starts at 1.0 and decays geometrically by 0.9 per period.
func GenerateForecast(values []float64, periods int) ([]ForecastPoint, error) {
	return GenerateForecastWithConfig(values, DefaultForecastConfig(periods))
}

// GenerateForecastWithConfig is GenerateForecast with explicit clamping and decay settings.
func GenerateForecastWithConfig(values []float64, cfg ForecastConfig) ([]ForecastPoint, error) {
	if cfg.Periods < 1 {
		return nil, &InvalidInputError{Arg: "periods", Reason: "at least one period must be requested"}
	}
	if !isFinite(cfg.Decay) || cfg.Decay <= 0 || cfg.Decay >= 1 {
		return nil, &InvalidInputError{Arg: "decay", Reason: "confidence decay must be within (0, 1)"}
	}

	trend, err := LinearTrend(values)
	if err != nil {
		return nil, err
	}

	n := len(values)
	points := make([]ForecastPoint, cfg.Periods)
	confidence := 1.0
	for i := range points {
		x := float64(n + i)
		v := trend.Slope*x + trend.Intercept
		if !isFinite(v) {
			return nil, &InvalidInputError{Arg: "values", Reason: fmt.Sprintf("projection for period %d exceeds the float64 range", i+1)}
		}
		if cfg.NonNegative {
			v = math.Max(0, v)
		}
		points[i] = ForecastPoint{
			Period:     i + 1,
			Value:      v,
			Confidence: confidence,
		}
		confidence *= cfg.Decay
	}

	return points, nil
}
