package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Direction summarises the sign of a trend's slope.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

// DefaultStableEpsilon is the slope magnitude below which a trend is reported as stable.
const DefaultStableEpsilon = 0.01

// TrendResult is the least-squares fit y = Slope*x + Intercept over x = 0..n-1.
type TrendResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"` // always within [0, 1]
}

// DirectionalTrend is a TrendResult annotated with its direction.
type DirectionalTrend struct {
	TrendResult
	Direction Direction `json:"direction"`
}

// LinearTrend fits an ordinary least-squares line against index-valued x coordinates.
//
// Short series are degenerate but valid: an empty series yields {0, 0, 0}, a single value v yields
// {0, v, 0}. A constant series yields slope 0, intercept equal to the constant and R² 0.
// A fit whose slope or intercept cannot be represented as a float64 is an InvalidInputError.
func LinearTrend(values []float64) (TrendResult, error) {
	if err := validateSeries("values", values); err != nil {
		return TrendResult{}, err
	}

	switch {
	case len(values) == 0:
		return TrendResult{}, nil
	case len(values) == 1 || isConstant(values):
		return TrendResult{Intercept: values[0]}, nil
	}

	scaled, factor := rescaled(values)
	xs := indexAxis(len(values))
	intercept, slope := stat.LinearRegression(xs, scaled, nil, false)
	r2 := stat.RSquared(xs, scaled, nil, intercept, slope)

	slope, intercept = slope*factor, intercept*factor
	if !isFinite(slope) || !isFinite(intercept) {
		return TrendResult{}, &InvalidInputError{Arg: "values", Reason: "trend exceeds the float64 range"}
	}

	return TrendResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  clamp(r2, 0, 1),
	}, nil
}

// Correlation returns Pearson's r for two series of equal length.
//
// Equal length is a precondition: callers holding series of different lengths must truncate them
// first (see TruncateToShortest). Mismatched lengths fail with an InvalidInputError.
// If either series has zero variance, or fewer than two points are supplied, the correlation is
// undefined and 0 is returned.
func Correlation(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &InvalidInputError{Arg: "b", Reason: "series must have equal length"}
	}
	if err := validateSeries("a", a); err != nil {
		return 0, err
	}
	if err := validateSeries("b", b); err != nil {
		return 0, err
	}
	if len(a) < 2 || isConstant(a) || isConstant(b) {
		return 0, nil
	}

	sa, _ := rescaled(a)
	sb, _ := rescaled(b)
	r := stat.Correlation(sa, sb, nil)
	if math.IsNaN(r) {
		return 0, nil
	}
	return clamp(r, -1, 1), nil
}

// TruncateToShortest returns prefixes of a and b cut to the shorter length. The inputs are not copied.
func TruncateToShortest(a, b []float64) ([]float64, []float64) {
	n := min(len(a), len(b))
	return a[:n], b[:n]
}

// DirectionOf classifies a slope: |slope| < epsilon is stable, otherwise the sign decides.
// A NaN slope has no sign and is stable.
func DirectionOf(slope, epsilon float64) Direction {
	switch {
	case math.IsNaN(slope) || math.Abs(slope) < epsilon:
		return DirectionStable
	case slope > 0:
		return DirectionIncreasing
	default:
		return DirectionDecreasing
	}
}

// NewDirectionalTrend fits a trend and classifies its direction.
func NewDirectionalTrend(values []float64, epsilon float64) (DirectionalTrend, error) {
	tr, err := LinearTrend(values)
	if err != nil {
		return DirectionalTrend{}, err
	}
	return DirectionalTrend{TrendResult: tr, Direction: DirectionOf(tr.Slope, epsilon)}, nil
}

func indexAxis(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
