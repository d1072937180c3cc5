package stats

import (
	"math"
	"testing"
)

func TestCalculateXmR(t *testing.T) {
	values := []float64{10, 12, 11, 13, 11}
	result := CalculateXmR(values)

	expectedAvg := 11.4
	if math.Abs(result.Average-expectedAvg) > 0.001 {
		t.Errorf("Expected average %v, got %v", expectedAvg, result.Average)
	}

	expectedAmR := 1.75
	if math.Abs(result.AmR-expectedAmR) > 0.001 {
		t.Errorf("Expected AmR %v, got %v", expectedAmR, result.AmR)
	}

	expectedUNPL := 16.055
	if math.Abs(result.UNPL-expectedUNPL) > 0.001 {
		t.Errorf("Expected UNPL %v, got %v", expectedUNPL, result.UNPL)
	}

	expectedURL := 5.719
	if math.Abs(result.URL-expectedURL) > 0.001 {
		t.Errorf("Expected URL %v, got %v", expectedURL, result.URL)
	}

	if len(result.Signals) != 0 {
		t.Errorf("Expected 0 signals, got %v", len(result.Signals))
	}
	if result.Status != StabilityStable {
		t.Errorf("Expected status %q, got %q", StabilityStable, result.Status)
	}
}

func TestXmRSignals(t *testing.T) {
	// Above the upper limit
	values := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 100}
	labels := []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9", "m10", "m11"}
	result := CalculateXmRWithLabels(values, labels)
	foundOutlier := false
	for _, s := range result.Signals {
		if s.Type == SignalAboveLimit && s.Index == 10 && s.Label == "m11" && s.Value == 100 {
			foundOutlier = true
		}
	}
	if !foundOutlier {
		t.Errorf("Expected outlier at index 10 not found. UNPL was %v, Value was 100", result.UNPL)
	}
	if result.Status != StabilityUnstable {
		t.Errorf("Expected status %q, got %q", StabilityUnstable, result.Status)
	}

	// Sustained runs (8 periods on one side)
	values = []float64{10, 10, 10, 10, 10, 10, 10, 10, 2, 2, 2, 2, 2, 2, 2, 2}
	result = CalculateXmR(values)
	foundShift := 0
	for _, s := range result.Signals {
		if s.Type == SignalSustainedRun {
			foundShift++
		}
	}
	if foundShift < 2 {
		t.Errorf("Expected 2 shift signals (one at index 7, one at index 15), got %v", foundShift)
	}
}

func TestCalculateXmR_DoesNotRetainInput(t *testing.T) {
	values := []float64{5, 6, 7}
	result := CalculateXmR(values)
	values[0] = 500

	if result.Values[0] != 5 {
		t.Errorf("Expected result to hold a copy of the input, got %v", result.Values[0])
	}
}

func TestCalculateXmR_Empty(t *testing.T) {
	result := CalculateXmR(nil)
	if result.Status != StabilityStable || len(result.Signals) != 0 {
		t.Errorf("Expected empty stable result, got %+v", result)
	}
}

func TestXmRLargeSwing(t *testing.T) {
	// AmR = 1615/7 = 230.7, URL = 754: the jump to 900 and the drop back both exceed it.
	values := []float64{100, 102, 98, 101, 99, 900, 100, 103}
	result := CalculateXmR(values)

	var swings []Signal
	for _, s := range result.Signals {
		if s.Type == SignalLargeSwing {
			swings = append(swings, s)
		}
	}
	if len(swings) != 2 {
		t.Fatalf("Expected 2 large swings, got %+v", swings)
	}
	if swings[0].Index != 5 || swings[0].Value != 801 {
		t.Errorf("Expected a rise of 801 at index 5, got %+v", swings[0])
	}
	if swings[1].Index != 6 || swings[1].Value != -800 {
		t.Errorf("Expected a fall of 800 at index 6, got %+v", swings[1])
	}
}

func TestXmRSignals_PeriodOrder(t *testing.T) {
	values := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 100}
	result := CalculateXmR(values)

	for i := 1; i < len(result.Signals); i++ {
		if result.Signals[i].Index < result.Signals[i-1].Index {
			t.Fatalf("Signals out of period order: %+v", result.Signals)
		}
	}
}

func TestCalculateXmR_HugeMagnitudes(t *testing.T) {
	result := CalculateXmR([]float64{1e308, 1e308, 0, 1e308})

	for name, v := range map[string]float64{"Average": result.Average, "AmR": result.AmR, "UNPL": result.UNPL, "URL": result.URL} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s is not finite: %v", name, v)
		}
	}
	if math.Abs(result.Average-0.75e308)/0.75e308 > 1e-12 {
		t.Errorf("Expected average 0.75e308, got %v", result.Average)
	}
}
