// Package analytics assembles the stats primitives into the cooperative's reporting views:
// financial trends over periodic snapshots and transaction trends over point-of-sale activity.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"kopstat/internal/stats"
)

// FinancialSnapshot is one periodic reading of the cooperative's books.
type FinancialSnapshot struct {
	Date         time.Time       `json:"date"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalAssets  decimal.Decimal `json:"totalAssets"`
	MemberCount  int             `json:"memberCount"`
}

// Transaction is a single sale or payment.
type Transaction struct {
	ID        string          `json:"id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Amount    decimal.Decimal `json:"amount"`
}

// FinancialTrends holds the directional trend of each financial series.
type FinancialTrends struct {
	Revenue stats.DirectionalTrend `json:"revenue"`
	Assets  stats.DirectionalTrend `json:"assets"`
	Members stats.DirectionalTrend `json:"members"`
}

// FinancialCorrelations relates revenue to the other series.
type FinancialCorrelations struct {
	RevenueAssets  float64 `json:"revenueAssets"`
	RevenueMembers float64 `json:"revenueMembers"`
}

// FinancialAnomalies lists anomalies per series.
type FinancialAnomalies struct {
	Revenue []stats.Anomaly `json:"revenue"`
	Assets  []stats.Anomaly `json:"assets"`
	Members []stats.Anomaly `json:"members"`
}

// FinancialForecasts projects each series forward.
type FinancialForecasts struct {
	Revenue []stats.ForecastPoint `json:"revenue"`
	Assets  []stats.ForecastPoint `json:"assets"`
	Members []stats.ForecastPoint `json:"members"`
}

// FinancialTrendsReport is the result of CalculateFinancialTrends.
type FinancialTrendsReport struct {
	Trends       FinancialTrends       `json:"trends"`
	Correlations FinancialCorrelations `json:"correlations"`
	Anomalies    FinancialAnomalies    `json:"anomalies"`
	Forecasts    FinancialForecasts    `json:"forecasts"`
	Stability    stats.XmRResult       `json:"revenueStability"`
	Periods      []string              `json:"periods"`
	DataPoints   int                   `json:"dataPoints"`
	CalculatedAt time.Time             `json:"calculatedAt"`
}

// TransactionTrends holds the directional trend of monthly volume and value.
type TransactionTrends struct {
	Volume stats.DirectionalTrend `json:"volume"`
	Value  stats.DirectionalTrend `json:"value"`
}

// PeakHour is the activity observed in one hour of the day.
type PeakHour struct {
	Hour             int     `json:"hour"`
	TransactionCount int     `json:"transactionCount"`
	Percentage       float64 `json:"percentage"`
}

// PeakDay is the average activity observed on one weekday.
type PeakDay struct {
	DayName             string  `json:"dayName"`
	AverageTransactions float64 `json:"averageTransactions"`
	TotalDays           int     `json:"totalDays"`
}

// TransactionPatterns are the hour-of-day and day-of-week histograms, busiest first.
type TransactionPatterns struct {
	PeakHours []PeakHour `json:"peakHours"`
	PeakDays  []PeakDay  `json:"peakDays"`
}

// TransactionStatistics are whole-window aggregates.
type TransactionStatistics struct {
	TotalTransactions    int     `json:"totalTransactions"`
	TotalValue           float64 `json:"totalValue"`
	AverageMonthlyVolume float64 `json:"averageMonthlyVolume"`
	AverageMonthlyValue  float64 `json:"averageMonthlyValue"`
	MonthsAnalyzed       int     `json:"monthsAnalyzed"`
}

// MonthBucket is the activity in one calendar month.
type MonthBucket struct {
	Month  string  `json:"month"` // YYYY-MM
	Volume int     `json:"volume"`
	Value  float64 `json:"value"`
}

// TransactionTrendsReport is the result of CalculateTransactionTrends.
type TransactionTrendsReport struct {
	Trends       TransactionTrends     `json:"trends"`
	Patterns     TransactionPatterns   `json:"patterns"`
	Statistics   TransactionStatistics `json:"statistics"`
	Months       []MonthBucket         `json:"months"`
	Anomalies    []stats.Anomaly       `json:"anomalies"`
	Forecast     []stats.ForecastPoint `json:"forecast"`
	CalculatedAt time.Time             `json:"calculatedAt"`
}
