package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopstat/internal/stats"
)

func sampleTransactions() []Transaction {
	return []Transaction{
		tx("2024-03-05T10:00:00Z", 300), // Tuesday
		tx("2024-01-01T09:00:00Z", 100), // Monday
		tx("2024-01-01T09:30:00Z", 50),
		tx("2024-01-08T14:00:00Z", 25), // Monday
		tx("2024-02-03T09:15:00Z", 200), // Saturday
	}
}

func TestCalculateTransactionTrends_MonthlyBuckets(t *testing.T) {
	report, err := newTestEngine().CalculateTransactionTrends(sampleTransactions())
	require.NoError(t, err)

	assert.Equal(t, []MonthBucket{
		{Month: "2024-01", Volume: 3, Value: 175},
		{Month: "2024-02", Volume: 1, Value: 200},
		{Month: "2024-03", Volume: 1, Value: 300},
	}, report.Months)

	s := report.Statistics
	assert.Equal(t, 5, s.TotalTransactions)
	assert.Equal(t, 3, s.MonthsAnalyzed)
	assert.InDelta(t, 675.0, s.TotalValue, 1e-9)
	assert.InDelta(t, 5.0/3.0, s.AverageMonthlyVolume, 1e-9)
	assert.InDelta(t, 225.0, s.AverageMonthlyValue, 1e-9)

	assert.InDelta(t, 62.5, report.Trends.Value.Slope, 1e-9)
	assert.Equal(t, stats.DirectionIncreasing, report.Trends.Value.Direction)
	assert.InDelta(t, -1.0, report.Trends.Volume.Slope, 1e-9)
	assert.Equal(t, stats.DirectionDecreasing, report.Trends.Volume.Direction)

	require.Len(t, report.Forecast, stats.DefaultForecastPeriods)
	assert.Equal(t, fixedNow, report.CalculatedAt)
}

func TestCalculateTransactionTrends_PeakHours(t *testing.T) {
	report, err := newTestEngine().CalculateTransactionTrends(sampleTransactions())
	require.NoError(t, err)

	hours := report.Patterns.PeakHours
	require.Len(t, hours, 24)
	assert.Equal(t, PeakHour{Hour: 9, TransactionCount: 3, Percentage: 60}, hours[0])
	assert.Equal(t, PeakHour{Hour: 10, TransactionCount: 1, Percentage: 20}, hours[1])
	assert.Equal(t, PeakHour{Hour: 14, TransactionCount: 1, Percentage: 20}, hours[2])
	assert.Equal(t, PeakHour{Hour: 0, TransactionCount: 0, Percentage: 0}, hours[3])

	seen := make(map[int]bool)
	for _, h := range hours {
		seen[h.Hour] = true
	}
	assert.Len(t, seen, 24)
}

func TestCalculateTransactionTrends_PeakDays(t *testing.T) {
	report, err := newTestEngine().CalculateTransactionTrends(sampleTransactions())
	require.NoError(t, err)

	days := report.Patterns.PeakDays
	require.Len(t, days, 7)
	assert.Equal(t, PeakDay{DayName: "Monday", AverageTransactions: 1.5, TotalDays: 2}, days[0])
	assert.Equal(t, PeakDay{DayName: "Tuesday", AverageTransactions: 1, TotalDays: 1}, days[1])
	assert.Equal(t, PeakDay{DayName: "Saturday", AverageTransactions: 1, TotalDays: 1}, days[2])
	assert.Equal(t, PeakDay{DayName: "Sunday", AverageTransactions: 0, TotalDays: 0}, days[3])
}

func TestCalculateTransactionTrends_TimeZone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Location = time.FixedZone("WIB", 7*3600)
	engine := NewEngine(cfg)

	report, err := engine.CalculateTransactionTrends([]Transaction{
		tx("2024-01-31T20:00:00Z", 10), // 2024-02-01 03:00 WIB
		tx("2024-02-10T01:00:00Z", 10), // 2024-02-10 08:00 WIB
	})
	require.NoError(t, err)

	require.Len(t, report.Months, 1)
	assert.Equal(t, "2024-02", report.Months[0].Month)
	assert.Equal(t, 2, report.Months[0].Volume)
	// Single month: degenerate trend, stable.
	assert.Equal(t, stats.DirectionStable, report.Trends.Volume.Direction)

	hours := map[int]int{}
	for _, h := range report.Patterns.PeakHours {
		hours[h.Hour] = h.TransactionCount
	}
	assert.Equal(t, 1, hours[3])
	assert.Equal(t, 1, hours[8])
}

func TestCalculateTransactionTrends_Errors(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.CalculateTransactionTrends([]Transaction{tx("2024-01-01T09:00:00Z", 1)})
	assert.ErrorIs(t, err, stats.ErrInvalidRecords)

	_, err = engine.CalculateTransactionTrends([]Transaction{
		tx("2024-01-01T09:00:00Z", 1),
		tx("2024-01-02T09:00:00Z", -5),
	})
	var invalid *stats.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "transactions[1].amount", invalid.Arg)

	_, err = engine.CalculateTransactionTrends([]Transaction{
		tx("2024-01-01T09:00:00Z", 1),
		{Amount: decimal.NewFromInt(1)},
	})
	assert.ErrorIs(t, err, stats.ErrInvalidInput)
}

func TestCalculateTransactionTrends_MonthlyValueAnomaly(t *testing.T) {
	var txs []Transaction
	for m := 1; m <= 10; m++ {
		amount := 100.0
		if m == 7 {
			amount = 5000
		}
		ts := time.Date(2024, time.Month(m), 15, 10, 0, 0, 0, time.UTC)
		txs = append(txs, Transaction{Timestamp: ts, Amount: decimal.NewFromFloat(amount)})
	}

	report, err := newTestEngine().CalculateTransactionTrends(txs)
	require.NoError(t, err)

	require.Len(t, report.Anomalies, 1)
	assert.Equal(t, 6, report.Anomalies[0].Index)
	assert.Equal(t, "2024-07", report.Months[report.Anomalies[0].Index].Month)
}
