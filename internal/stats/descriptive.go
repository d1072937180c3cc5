// Package stats implements the numeric core of the analytics engine: descriptive statistics,
// least-squares trends, correlation, z-score anomaly detection, trend forecasting and
// process-behaviour (XmR) charts.
//
// Every function is pure. Inputs are never modified; sorting and centering happen on copies.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is a compact descriptive profile of a series.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	StdDev float64 `json:"std_dev"`
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptySeriesError{Op: "mean"}
	}
	if err := validateSeries("values", values); err != nil {
		return 0, err
	}
	if isConstant(values) {
		return values[0], nil
	}
	scaled, factor := rescaled(values)
	return stat.Mean(scaled, nil) * factor, nil
}

// Median finds the middle value of a series. Even-length series yield the average of the two middles.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptySeriesError{Op: "median"}
	}
	if err := validateSeries("values", values); err != nil {
		return 0, err
	}

	// Work on a copy to avoid mutating the original
	temp := sortedCopy(values)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2], nil
	}
	return temp[n/2-1]/2 + temp[n/2]/2, nil
}

// Percentile returns the p-th percentile (0..100) using linear interpolation between closest ranks,
// where rank = p/100 * (n-1). The input does not need to be sorted.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptySeriesError{Op: "percentile"}
	}
	if !isFinite(p) || p < 0 || p > 100 {
		return 0, &InvalidInputError{Arg: "p", Reason: "percentile must be within [0, 100]"}
	}
	if err := validateSeries("values", values); err != nil {
		return 0, err
	}

	temp := sortedCopy(values)
	return percentileSorted(temp, p), nil
}

// StandardDeviation returns the population standard deviation (divide by N) of values around mean.
// A constant series yields exactly 0.
func StandardDeviation(values []float64, mean float64) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptySeriesError{Op: "standard deviation"}
	}
	if !isFinite(mean) {
		return 0, &InvalidInputError{Arg: "mean", Reason: "mean must be a finite number"}
	}
	if err := validateSeries("values", values); err != nil {
		return 0, err
	}
	if isConstant(values) && values[0] == mean {
		return 0, nil
	}

	factor := scaleFor(math.Max(floats.Norm(values, math.Inf(1)), math.Abs(mean)))
	centered := make([]float64, len(values))
	copy(centered, values)
	if factor != 1 {
		floats.Scale(1/factor, centered)
	}
	floats.AddConst(-mean/factor, centered)

	std := math.Sqrt(floats.Dot(centered, centered)/float64(len(values))) * factor
	if !isFinite(std) {
		return 0, &InvalidInputError{Arg: "values", Reason: "standard deviation exceeds the float64 range"}
	}
	return std, nil
}

// Describe computes a Summary for a non-empty series.
func Describe(values []float64) (Summary, error) {
	mean, err := Mean(values)
	if err != nil {
		return Summary{}, err
	}
	std, err := StandardDeviation(values, mean)
	if err != nil {
		return Summary{}, err
	}

	temp := sortedCopy(values)
	return Summary{
		Count:  len(temp),
		Min:    temp[0],
		Max:    temp[len(temp)-1],
		Mean:   mean,
		Median: percentileSorted(temp, 50),
		P25:    percentileSorted(temp, 25),
		P75:    percentileSorted(temp, 75),
		P90:    percentileSorted(temp, 90),
		StdDev: std,
	}, nil
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	lo, hi := sorted[lower], sorted[upper]
	if d := hi - lo; !math.IsInf(d, 0) {
		return lo + d*frac
	}
	return lo*(1-frac) + hi*frac
}

// popMeanStdDev returns the population mean and standard deviation of a non-empty, finite series.
func popMeanStdDev(values []float64) (mean, std float64, err error) {
	if isConstant(values) {
		return values[0], 0, nil
	}
	if mean, err = Mean(values); err != nil {
		return 0, 0, err
	}
	if std, err = StandardDeviation(values, mean); err != nil {
		return 0, 0, err
	}
	return mean, std, nil
}

// overflowGuard is the largest magnitude summed or squared without rescaling.
const overflowGuard = 1e100

// scaleFor returns the power of two that brings peak to at most 2, or 1 when peak is within overflowGuard.
func scaleFor(peak float64) float64 {
	if peak <= overflowGuard {
		return 1
	}
	_, exp := math.Frexp(peak)
	return math.Ldexp(1, exp-1)
}

// rescaled divides values by scaleFor of their largest magnitude. Powers of two divide exactly,
// so a statistic of the rescaled series times factor equals the statistic of the original.
// Values within overflowGuard are returned as is with factor 1.
func rescaled(values []float64) (scaled []float64, factor float64) {
	factor = scaleFor(floats.Norm(values, math.Inf(1)))
	if factor == 1 {
		return values, 1
	}
	scaled = make([]float64, len(values))
	floats.ScaleTo(scaled, 1/factor, values)
	return scaled, factor
}

func sortedCopy(values []float64) []float64 {
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)
	return temp
}

func isConstant(values []float64) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
