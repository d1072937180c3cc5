package analytics

import (
	"time"

	"github.com/rs/zerolog"

	"kopstat/internal/stats"
)

// Instrumented wraps an Analyzer and logs the duration and outcome of every call.
// The wrapped analyzer is unaware of the timing.
type Instrumented struct {
	next   Analyzer
	logger zerolog.Logger
}

var _ Analyzer = (*Instrumented)(nil)

// NewInstrumented decorates next; calls are logged at debug level, failures at warn level.
func NewInstrumented(next Analyzer, logger zerolog.Logger) *Instrumented {
	return &Instrumented{next: next, logger: logger}
}

func (i *Instrumented) observe(op string, size int, start time.Time, err error) {
	evt := i.logger.Debug()
	if err != nil {
		evt = i.logger.Warn().Err(err)
	}
	evt.Str("op", op).
		Int("inputSize", size).
		Dur("elapsed", time.Since(start)).
		Msg("analytics call")
}

func (i *Instrumented) Median(values []float64) (float64, error) {
	start := time.Now()
	res, err := i.next.Median(values)
	i.observe("median", len(values), start, err)
	return res, err
}

func (i *Instrumented) Percentile(values []float64, p float64) (float64, error) {
	start := time.Now()
	res, err := i.next.Percentile(values, p)
	i.observe("percentile", len(values), start, err)
	return res, err
}

func (i *Instrumented) StandardDeviation(values []float64, mean float64) (float64, error) {
	start := time.Now()
	res, err := i.next.StandardDeviation(values, mean)
	i.observe("standardDeviation", len(values), start, err)
	return res, err
}

func (i *Instrumented) Describe(values []float64) (stats.Summary, error) {
	start := time.Now()
	res, err := i.next.Describe(values)
	i.observe("describe", len(values), start, err)
	return res, err
}

func (i *Instrumented) LinearTrend(values []float64) (stats.TrendResult, error) {
	start := time.Now()
	res, err := i.next.LinearTrend(values)
	i.observe("linearTrend", len(values), start, err)
	return res, err
}

func (i *Instrumented) Correlation(a, b []float64) (float64, error) {
	start := time.Now()
	res, err := i.next.Correlation(a, b)
	i.observe("correlation", len(a), start, err)
	return res, err
}

func (i *Instrumented) DetectAnomalies(values []float64, threshold float64) ([]stats.Anomaly, error) {
	start := time.Now()
	res, err := i.next.DetectAnomalies(values, threshold)
	i.observe("detectAnomalies", len(values), start, err)
	return res, err
}

func (i *Instrumented) GenerateForecast(values []float64, periods int) ([]stats.ForecastPoint, error) {
	start := time.Now()
	res, err := i.next.GenerateForecast(values, periods)
	i.observe("generateForecast", len(values), start, err)
	return res, err
}

func (i *Instrumented) CalculateFinancialTrends(records []FinancialSnapshot) (*FinancialTrendsReport, error) {
	start := time.Now()
	res, err := i.next.CalculateFinancialTrends(records)
	i.observe("financialTrends", len(records), start, err)
	return res, err
}

func (i *Instrumented) CalculateTransactionTrends(transactions []Transaction) (*TransactionTrendsReport, error) {
	start := time.Now()
	res, err := i.next.CalculateTransactionTrends(transactions)
	i.observe("transactionTrends", len(transactions), start, err)
	return res, err
}
