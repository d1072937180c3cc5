package stats

import (
	"math"
)

// DefaultAnomalyThreshold is the z-score at or above which a point is flagged.
const DefaultAnomalyThreshold = 2.0

// zTolerance is the distance below the threshold at which a z-score still counts as reaching it.
const zTolerance = 1e-9

// AnomalyKind tells whether an anomaly lies above or below the mean.
type AnomalyKind string

const (
	AnomalyKindSpike AnomalyKind = "spike"
	AnomalyKindDrop  AnomalyKind = "drop"
)

// Anomaly is a point whose z-score reached the detection threshold.
type Anomaly struct {
	Index  int         `json:"index"`
	Value  float64     `json:"value"`
	ZScore float64     `json:"z_score"` // absolute, >= threshold
	Kind   AnomalyKind `json:"kind"`
}

// DetectAnomalies flags every element whose absolute z-score |v-mean|/stdDev is >= threshold,
// using the population mean and standard deviation of the whole series.
//
// Z-scores within zTolerance of the threshold are reported as the threshold itself.
// A series with zero spread has no anomalies. Results are in index order; an empty series
// yields an empty, non-nil slice.
func DetectAnomalies(values []float64, threshold float64) ([]Anomaly, error) {
	if !isFinite(threshold) || threshold < 0 {
		return nil, &InvalidInputError{Arg: "threshold", Reason: "threshold must be a finite, non-negative number"}
	}
	if err := validateSeries("values", values); err != nil {
		return nil, err
	}

	anomalies := []Anomaly{}
	if len(values) == 0 {
		return anomalies, nil
	}

	scaled, _ := rescaled(values)
	mean, stdDev, err := popMeanStdDev(scaled)
	if err != nil {
		return nil, err
	}
	if stdDev == 0 {
		return anomalies, nil
	}

	for i, v := range values {
		z := math.Abs(scaled[i]-mean) / stdDev
		if math.Abs(z-threshold) <= zTolerance {
			z = threshold
		}
		if z < threshold {
			continue
		}
		kind := AnomalyKindSpike
		if scaled[i] < mean {
			kind = AnomalyKindDrop
		}
		anomalies = append(anomalies, Anomaly{
			Index:  i,
			Value:  v,
			ZScore: z,
			Kind:   kind,
		})
	}

	return anomalies, nil
}
