package stats

import (
	"errors"
	"math"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"SingleItem", []float64{42}, 42},
		{"OddCount", []float64{1, 3, 5, 7, 9}, 5},
		{"EvenCount", []float64{2, 4, 6, 8}, 5},
		{"Unsorted", []float64{10.5, 2.5, 8.5, 4.5, 6.5}, 6.5},
		{"Negative", []float64{-3, -1, -2}, -2},
		{"MaxFloatPair", []float64{math.MaxFloat64, math.MaxFloat64}, math.MaxFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Median(tt.values)
			if err != nil {
				t.Fatalf("Median() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Median() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{9, 1, 5}
	if _, err := Median(values); err != nil {
		t.Fatal(err)
	}
	if values[0] != 9 || values[1] != 1 || values[2] != 5 {
		t.Errorf("Median() reordered its input: %v", values)
	}
}

func TestDescriptive_EmptySeries(t *testing.T) {
	if _, err := Median(nil); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Median(nil) error = %v, want ErrEmptySeries", err)
	}
	if _, err := Percentile([]float64{}, 50); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Percentile(empty) error = %v, want ErrEmptySeries", err)
	}
	if _, err := StandardDeviation(nil, 0); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("StandardDeviation(nil) error = %v, want ErrEmptySeries", err)
	}
	if _, err := Mean(nil); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Mean(nil) error = %v, want ErrEmptySeries", err)
	}

	var empty *EmptySeriesError
	_, err := Median(nil)
	if !errors.As(err, &empty) || empty.Op != "median" {
		t.Errorf("expected EmptySeriesError for median, got %v", err)
	}
}

func TestDescriptive_NonFiniteInput(t *testing.T) {
	bad := [][]float64{
		{1, math.NaN(), 3},
		{math.Inf(1)},
		{2, math.Inf(-1)},
	}
	for _, values := range bad {
		if _, err := Median(values); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Median(%v) error = %v, want ErrInvalidInput", values, err)
		}
		if _, err := Percentile(values, 10); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Percentile(%v) error = %v, want ErrInvalidInput", values, err)
		}
		if _, err := StandardDeviation(values, 1); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("StandardDeviation(%v) error = %v, want ErrInvalidInput", values, err)
		}
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{15, 20, 35, 40, 50}
	tests := []struct {
		name     string
		p        float64
		expected float64
	}{
		{"Min", 0, 15},
		{"Max", 100, 50},
		{"MiddleOfOddLength", 50, 35},
		{"Interpolated25", 25, 20},
		{"Interpolated40", 40, 29},
		{"Interpolated90", 90, 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentile(values, tt.p)
			if err != nil {
				t.Fatalf("Percentile() unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.expected)
			}
		})
	}
}

func TestPercentile_OutOfRange(t *testing.T) {
	for _, p := range []float64{-1, 100.5, math.NaN()} {
		_, err := Percentile([]float64{1, 2, 3}, p)
		var invalid *InvalidInputError
		if !errors.As(err, &invalid) || invalid.Arg != "p" {
			t.Errorf("Percentile(p=%v) error = %v, want InvalidInputError on p", p, err)
		}
	}
}

func TestPercentile_UnsortedInput(t *testing.T) {
	got, err := Percentile([]float64{50, 15, 40, 20, 35}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 15 {
		t.Errorf("Percentile(unsorted, 0) = %v, want 15", got)
	}
}

func TestStandardDeviation(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Population", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2},
		{"Constant", []float64{0.1, 0.1, 0.1}, 0},
		{"SingleItem", []float64{7}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, err := Mean(tt.values)
			if err != nil {
				t.Fatal(err)
			}
			got, err := StandardDeviation(tt.values, mean)
			if err != nil {
				t.Fatalf("StandardDeviation() unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("StandardDeviation() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStandardDeviation_ConstantIsExactlyZero(t *testing.T) {
	values := []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3}
	mean, _ := Mean(values)
	got, err := StandardDeviation(values, mean)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("StandardDeviation(constant) = %v, want exactly 0", got)
	}
}

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{5, 1, 4, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if s.Count != 5 || s.Min != 1 || s.Max != 5 || s.Mean != 3 || s.Median != 3 {
		t.Errorf("Describe() = %+v", s)
	}
	if s.P25 != 2 || s.P75 != 4 {
		t.Errorf("Describe() quartiles = %v/%v, want 2/4", s.P25, s.P75)
	}
	if math.Abs(s.StdDev-math.Sqrt2) > 1e-9 {
		t.Errorf("Describe() std dev = %v, want sqrt(2)", s.StdDev)
	}
}

func TestDescriptive_HugeMagnitudes(t *testing.T) {
	values := []float64{1e308, 1e308, 0, 1e308}

	s, err := Describe(values)
	if err != nil {
		t.Fatalf("Describe() unexpected error: %v", err)
	}
	if math.Abs(s.Mean-0.75e308)/0.75e308 > 1e-12 {
		t.Errorf("Mean = %v, want 0.75e308", s.Mean)
	}
	wantStd := math.Sqrt(0.1875) * 1e308
	if math.Abs(s.StdDev-wantStd)/wantStd > 1e-12 {
		t.Errorf("StdDev = %v, want %v", s.StdDev, wantStd)
	}

	mid, err := Percentile([]float64{-math.MaxFloat64, math.MaxFloat64}, 50)
	if err != nil {
		t.Fatalf("Percentile() unexpected error: %v", err)
	}
	if mid != 0 {
		t.Errorf("Percentile(50) across the full range = %v, want 0", mid)
	}
}

func TestStandardDeviation_Overflow(t *testing.T) {
	_, err := StandardDeviation([]float64{-math.MaxFloat64, math.MaxFloat64}, math.MaxFloat64)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a deviation beyond the float64 range, got %v", err)
	}
}
