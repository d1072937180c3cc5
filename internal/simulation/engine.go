// Package simulation projects a series forward by Monte-Carlo resampling of its historical
// period-over-period changes.
package simulation

import (
	"math/rand"
	"time"

	"kopstat/internal/stats"
)

// DefaultTrials is the number of simulated paths when none is requested.
const DefaultTrials = 10000

// Band holds the outcome percentiles for one projected period.
type Band struct {
	Period int     `json:"period"`
	P10    float64 `json:"p10"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
}

// Engine performs the Monte-Carlo simulation.
type Engine struct {
	last   float64
	deltas []float64
	rng    *rand.Rand
}

// NewEngine prepares a simulation over history (oldest first). At least two finite values are required.
func NewEngine(history []float64, seed int64) (*Engine, error) {
	if len(history) < 2 {
		return nil, &stats.InvalidRecordsError{Op: "simulation", Got: len(history), Need: 2}
	}
	// Mean rejects NaN and infinite values.
	if _, err := stats.Mean(history); err != nil {
		return nil, err
	}

	deltas := make([]float64, len(history)-1)
	for i := 1; i < len(history); i++ {
		deltas[i-1] = history[i] - history[i-1]
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		last:   history[len(history)-1],
		deltas: deltas,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Run simulates trials paths of the given length and returns per-period percentile bands.
// Values are clamped at 0 along each path.
func (e *Engine) Run(periods, trials int) ([]Band, error) {
	if periods < 1 {
		return nil, &stats.InvalidInputError{Arg: "periods", Reason: "at least one period must be requested"}
	}
	if trials < 1 {
		trials = DefaultTrials
	}

	outcomes := make([][]float64, periods)
	for p := range outcomes {
		outcomes[p] = make([]float64, trials)
	}

	for t := 0; t < trials; t++ {
		v := e.last
		for p := 0; p < periods; p++ {
			// Randomly sample a change from history
			v += e.deltas[e.rng.Intn(len(e.deltas))]
			if v < 0 {
				v = 0
			}
			outcomes[p][t] = v
		}
	}

	bands := make([]Band, periods)
	for p, values := range outcomes {
		bands[p] = Band{Period: p + 1}
		var err error
		if bands[p].P10, err = stats.Percentile(values, 10); err != nil {
			return nil, err
		}
		if bands[p].P50, err = stats.Percentile(values, 50); err != nil {
			return nil, err
		}
		if bands[p].P90, err = stats.Percentile(values, 90); err != nil {
			return nil, err
		}
	}
	return bands, nil
}
