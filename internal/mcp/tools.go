package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SeriesInput is a single numeric series.
type SeriesInput struct {
	Values []float64 `json:"values" jsonschema:"Ordered observations, oldest first."`
}

// CorrelationInput is a pair of series of equal length.
type CorrelationInput struct {
	A        []float64 `json:"a" jsonschema:"First series."`
	B        []float64 `json:"b" jsonschema:"Second series, same length as a."`
	Truncate bool      `json:"truncate,omitempty" jsonschema:"Cut both series to the shorter length instead of failing on a length mismatch."`
}

// AnomalyInput is a series plus an optional z-score threshold.
type AnomalyInput struct {
	Values    []float64 `json:"values" jsonschema:"Ordered observations, oldest first."`
	Threshold *float64  `json:"threshold,omitempty" jsonschema:"Z-score at or above which a value is anomalous. Omit for the configured threshold (2.0); 0 flags every value."`
}

// ForecastInput is a series plus a forecast horizon.
type ForecastInput struct {
	Values  []float64 `json:"values" jsonschema:"Ordered observations, oldest first."`
	Periods int       `json:"periods,omitempty" jsonschema:"Number of periods to project. Default is the configured horizon (3)."`
}

// SimulateInput is a series plus Monte-Carlo settings.
type SimulateInput struct {
	Values  []float64 `json:"values" jsonschema:"Ordered observations, oldest first. At least 2."`
	Periods int       `json:"periods,omitempty" jsonschema:"Number of periods to project. Default is the configured horizon (3)."`
	Trials  int       `json:"trials,omitempty" jsonschema:"Number of simulated paths. Default 10000."`
	Seed    int64     `json:"seed,omitempty" jsonschema:"Random seed for reproducible results. 0 picks a time-based seed."`
}

// DescribeInput is a series plus optional extra percentiles.
type DescribeInput struct {
	Values      []float64 `json:"values" jsonschema:"Observations in any order."`
	Percentiles []float64 `json:"percentiles,omitempty" jsonschema:"Extra percentiles (0-100) to compute by linear interpolation."`
}

// SnapshotRecord is one financial snapshot as sent by a client.
type SnapshotRecord struct {
	Date         string  `json:"date" jsonschema:"Snapshot date, YYYY-MM-DD or RFC3339."`
	TotalRevenue float64 `json:"totalRevenue" jsonschema:"Revenue for the period."`
	TotalAssets  float64 `json:"totalAssets" jsonschema:"Total assets at the snapshot date."`
	MemberCount  int     `json:"memberCount" jsonschema:"Number of members at the snapshot date."`
}

// TransactionRecord is one transaction as sent by a client.
type TransactionRecord struct {
	ID        string  `json:"id,omitempty" jsonschema:"Optional transaction identifier."`
	Timestamp string  `json:"timestamp" jsonschema:"Transaction time, RFC3339 (or YYYY-MM-DD for midnight UTC)."`
	Amount    float64 `json:"amount" jsonschema:"Transaction amount, not negative."`
}

// FinancialTrendsInput carries snapshots inline and/or as files to load.
type FinancialTrendsInput struct {
	Records []SnapshotRecord `json:"records,omitempty" jsonschema:"Inline snapshots."`
	Paths   []string         `json:"paths,omitempty" jsonschema:"Snapshot files (.json, .jsonl or .csv) readable by the server."`
}

// TransactionTrendsInput carries transactions inline and/or as files to load.
type TransactionTrendsInput struct {
	Records []TransactionRecord `json:"records,omitempty" jsonschema:"Inline transactions."`
	Paths   []string            `json:"paths,omitempty" jsonschema:"Transaction files (.json, .jsonl or .csv) readable by the server."`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "linear_trend",
		Description: "Fit a least-squares line to a series against its index (0, 1, 2, ...). Returns slope, intercept, R² and the direction (increasing, decreasing or stable).",
	}, s.handleLinearTrend)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "correlation",
		Description: "Pearson correlation of two equal-length series, in [-1, 1]. Returns 0 when either series is constant or shorter than 2 points.",
	}, s.handleCorrelation)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "detect_anomalies",
		Description: "Flag values whose absolute z-score (population standard deviation) reaches the threshold. " +
			"Each anomaly carries its index, value, z-score and kind (spike or drop). A constant series has no anomalies.",
	}, s.handleDetectAnomalies)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "generate_forecast",
		Description: "Project the series' linear trend forward. Values are clamped at 0 and confidence decays from 1.0 by a factor of 0.9 per period.\n" +
			"This is a naive trend extrapolation, not a probabilistic forecast: DO NOT present it as a prediction interval.",
	}, s.handleGenerateForecast)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "simulate_forecast",
		Description: "Monte-Carlo projection: resample the series' historical period-over-period changes into many paths and report P10/P50/P90 per period.\n" +
			"Only as reliable as the history it samples: DO NOT extrapolate beyond the requested periods.",
	}, s.handleSimulateForecast)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "describe_series",
		Description: "Descriptive statistics for a series: count, min, max, mean, median, P25, P75, P90 and population standard deviation.",
	}, s.handleDescribeSeries)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "financial_trends",
		Description: "Analyze periodic financial snapshots of a cooperative (revenue, assets, member count). " +
			"Returns trends, revenue correlations, anomalies, forecasts and a revenue stability (XmR) chart. Requires at least 2 snapshots.",
	}, s.handleFinancialTrends)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "transaction_trends",
		Description: "Analyze transactions by calendar month: volume and value trends, peak hours, peak weekdays, anomalous months and a value forecast. " +
			"Requires at least 2 transactions.",
	}, s.handleTransactionTrends)
}
