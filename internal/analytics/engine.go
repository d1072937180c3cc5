package analytics

import (
	"time"

	"kopstat/internal/stats"
)

// Analyzer is the full set of engine operations. Engine implements it; Instrumented decorates it.
type Analyzer interface {
	Median(values []float64) (float64, error)
	Percentile(values []float64, p float64) (float64, error)
	StandardDeviation(values []float64, mean float64) (float64, error)
	Describe(values []float64) (stats.Summary, error)
	LinearTrend(values []float64) (stats.TrendResult, error)
	Correlation(a, b []float64) (float64, error)
	DetectAnomalies(values []float64, threshold float64) ([]stats.Anomaly, error)
	GenerateForecast(values []float64, periods int) ([]stats.ForecastPoint, error)
	CalculateFinancialTrends(records []FinancialSnapshot) (*FinancialTrendsReport, error)
	CalculateTransactionTrends(transactions []Transaction) (*TransactionTrendsReport, error)
}

// Config tunes the aggregators. Zero fields take the defaults.
type Config struct {
	AnomalyThreshold float64
	ForecastPeriods  int
	StableEpsilon    float64
	Location         *time.Location
	Clock            func() time.Time
}

// DefaultConfig returns the engine defaults: z >= 2.0, 3 forecast periods, slope epsilon 0.01, UTC.
func DefaultConfig() Config {
	return Config{
		AnomalyThreshold: stats.DefaultAnomalyThreshold,
		ForecastPeriods:  stats.DefaultForecastPeriods,
		StableEpsilon:    stats.DefaultStableEpsilon,
		Location:         time.UTC,
		Clock:            time.Now,
	}
}

// Engine is a stateless facade over the stats package plus the trend aggregators.
// It holds only immutable configuration and is safe for concurrent use.
type Engine struct {
	cfg Config
}

var _ Analyzer = (*Engine)(nil)

// NewEngine creates an engine, filling unset config fields with defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = def.AnomalyThreshold
	}
	if cfg.ForecastPeriods < 1 {
		cfg.ForecastPeriods = def.ForecastPeriods
	}
	if cfg.StableEpsilon <= 0 {
		cfg.StableEpsilon = def.StableEpsilon
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.Clock == nil {
		cfg.Clock = def.Clock
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Initialize is a no-op; the engine acquires nothing.
func (e *Engine) Initialize() error { return nil }

// Destroy is a no-op; the engine holds nothing to release.
func (e *Engine) Destroy() {}

func (e *Engine) Median(values []float64) (float64, error) {
	return stats.Median(values)
}

func (e *Engine) Percentile(values []float64, p float64) (float64, error) {
	return stats.Percentile(values, p)
}

func (e *Engine) StandardDeviation(values []float64, mean float64) (float64, error) {
	return stats.StandardDeviation(values, mean)
}

func (e *Engine) Describe(values []float64) (stats.Summary, error) {
	return stats.Describe(values)
}

func (e *Engine) LinearTrend(values []float64) (stats.TrendResult, error) {
	return stats.LinearTrend(values)
}

func (e *Engine) Correlation(a, b []float64) (float64, error) {
	return stats.Correlation(a, b)
}

func (e *Engine) DetectAnomalies(values []float64, threshold float64) ([]stats.Anomaly, error) {
	return stats.DetectAnomalies(values, threshold)
}

func (e *Engine) GenerateForecast(values []float64, periods int) ([]stats.ForecastPoint, error) {
	return stats.GenerateForecast(values, periods)
}
