package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches any *InvalidInputError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptySeries matches any *EmptySeriesError via errors.Is.
	ErrEmptySeries = errors.New("empty series")
	// ErrInvalidRecords matches any *InvalidRecordsError via errors.Is.
	ErrInvalidRecords = errors.New("invalid records")
)

// InvalidInputError reports a malformed argument: a non-finite element, a parameter out of range,
// or mismatched series lengths.
type InvalidInputError struct {
	Arg    string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Arg, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// EmptySeriesError is returned by statistics that are undefined on an empty series.
type EmptySeriesError struct {
	Op string
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("%s: series is empty", e.Op)
}

func (e *EmptySeriesError) Is(target error) bool { return target == ErrEmptySeries }

// InvalidRecordsError is returned by the trend aggregators when too few records were supplied to fit a trend.
type InvalidRecordsError struct {
	Op   string
	Got  int
	Need int
}

func (e *InvalidRecordsError) Error() string {
	return fmt.Sprintf("%s: need at least %d records, got %d", e.Op, e.Need, e.Got)
}

func (e *InvalidRecordsError) Is(target error) bool { return target == ErrInvalidRecords }

// validateSeries rejects NaN and infinite elements.
func validateSeries(arg string, values []float64) error {
	for i, v := range values {
		if !isFinite(v) {
			return &InvalidInputError{Arg: arg, Reason: fmt.Sprintf("element %d is not a finite number (%v)", i, v)}
		}
	}
	return nil
}
