package stats

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// XmR stability statuses.
const (
	StabilityStable   = "stable"
	StabilityUnstable = "unstable"
)

// SignalType names the rule that raised a Signal.
type SignalType string

const (
	// SignalAboveLimit marks a period above the upper natural process limit.
	SignalAboveLimit SignalType = "above_limit"
	// SignalBelowLimit marks a period below the lower natural process limit.
	SignalBelowLimit SignalType = "below_limit"
	// SignalLargeSwing marks a period whose change from the previous one exceeds the upper range limit.
	SignalLargeSwing SignalType = "large_swing"
	// SignalSustainedRun marks the period completing a run of RunLength periods on one side of the average.
	SignalSustainedRun SignalType = "sustained_run"
)

const (
	// naturalLimitFactor is Wheeler's scaling constant for individuals (3/d2, d2 = 1.128).
	naturalLimitFactor = 2.66
	// rangeLimitFactor is D4 for two-point moving ranges.
	rangeLimitFactor = 3.268
	// RunLength is the number of consecutive periods on one side of the average that signals a shift.
	RunLength = 8
)

// XmRResult is an individuals and moving range (process behaviour) chart of a periodic series.
// LNPL is floored at 0: the charted series are money amounts.
type XmRResult struct {
	Average     float64   `json:"average"`
	AmR         float64   `json:"average_moving_range"`
	UNPL        float64   `json:"upper_natural_process_limit"`
	LNPL        float64   `json:"lower_natural_process_limit"`
	URL         float64   `json:"upper_range_limit"`
	Values      []float64 `json:"values"`
	MovingRange []float64 `json:"moving_ranges"`
	Signals     []Signal  `json:"signals"`
	Status      string    `json:"status"`
}

// Signal is a period that shows exceptional variation. Value is the period's value, or for a
// large swing the signed change from the previous period.
type Signal struct {
	Index       int        `json:"index"`
	Label       string     `json:"label,omitempty"`
	Type        SignalType `json:"type"`
	Value       float64    `json:"value"`
	Description string     `json:"description"`
}

// CalculateXmR charts values without period labels.
func CalculateXmR(values []float64) XmRResult {
	return CalculateXmRWithLabels(values, nil)
}

// CalculateXmRWithLabels charts values and tags each signal with the label of its period
// (e.g. "2024-03-31"). Signals are in period order. The input is copied, never retained.
func CalculateXmRWithLabels(values []float64, labels []string) XmRResult {
	if len(values) == 0 {
		return XmRResult{Status: StabilityStable}
	}

	c := newXmRChart(values)
	signals := c.limitSignals()
	signals = append(signals, c.swingSignals()...)
	signals = append(signals, c.runSignals()...)
	slices.SortStableFunc(signals, func(a, b Signal) int { return cmp.Compare(a.Index, b.Index) })
	for i := range signals {
		if idx := signals[i].Index; idx < len(labels) {
			signals[i].Label = labels[idx]
		}
	}

	status := StabilityStable
	if len(signals) > 0 {
		status = StabilityUnstable
	}

	f := c.factor
	ranges := make([]float64, len(c.ranges))
	for i, r := range c.ranges {
		ranges[i] = r * f
	}
	return XmRResult{
		Average:     c.avg * f,
		AmR:         c.amr * f,
		UNPL:        c.unpl * f,
		LNPL:        c.lnpl * f,
		URL:         c.url * f,
		Values:      slices.Clone(values),
		MovingRange: ranges,
		Signals:     signals,
		Status:      status,
	}
}

// xmrChart holds the chart in rescaled units; signals report values in original units.
type xmrChart struct {
	original []float64
	scaled   []float64
	factor   float64
	ranges   []float64

	avg, amr, unpl, lnpl, url float64
}

func newXmRChart(values []float64) *xmrChart {
	scaled, factor := rescaled(values)
	c := &xmrChart{original: values, scaled: scaled, factor: factor}

	c.avg = stat.Mean(scaled, nil)
	if len(scaled) > 1 {
		c.ranges = make([]float64, len(scaled)-1)
		for i := 1; i < len(scaled); i++ {
			c.ranges[i-1] = math.Abs(scaled[i] - scaled[i-1])
		}
		c.amr = stat.Mean(c.ranges, nil)
	}
	c.unpl = c.avg + naturalLimitFactor*c.amr
	c.lnpl = math.Max(0, c.avg-naturalLimitFactor*c.amr)
	c.url = rangeLimitFactor * c.amr
	return c
}

func (c *xmrChart) limitSignals() []Signal {
	var out []Signal
	for i, v := range c.scaled {
		switch {
		case v > c.unpl:
			out = append(out, Signal{Index: i, Type: SignalAboveLimit, Value: c.original[i],
				Description: "Period above the upper natural process limit"})
		case v < c.lnpl:
			out = append(out, Signal{Index: i, Type: SignalBelowLimit, Value: c.original[i],
				Description: "Period below the lower natural process limit"})
		}
	}
	return out
}

func (c *xmrChart) swingSignals() []Signal {
	var out []Signal
	if c.url == 0 {
		return out
	}
	for i, r := range c.ranges {
		if r <= c.url {
			continue
		}
		change := (c.scaled[i+1] - c.scaled[i]) * c.factor
		direction := "rise"
		if change < 0 {
			direction = "fall"
		}
		out = append(out, Signal{Index: i + 1, Type: SignalLargeSwing, Value: change,
			Description: fmt.Sprintf("Period-over-period %s beyond the upper range limit", direction)})
	}
	return out
}

func (c *xmrChart) runSignals() []Signal {
	var out []Signal
	if len(c.scaled) < RunLength {
		return out
	}
	side, start := 0, 0
	for i, v := range c.scaled {
		s := cmp.Compare(v, c.avg)
		if s == 0 || s != side {
			side, start = s, i
		}
		if side != 0 && i-start+1 == RunLength {
			where := "above"
			if side < 0 {
				where = "below"
			}
			out = append(out, Signal{Index: i, Type: SignalSustainedRun, Value: c.original[i],
				Description: fmt.Sprintf("%d consecutive periods %s the average", RunLength, where)})
		}
	}
	return out
}
