package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"kopstat/internal/stats"
)

// CalculateTransactionTrends buckets transactions by calendar month, fits trends to monthly volume
// and value, builds hour-of-day and day-of-week activity histograms, flags anomalous months by value
// and projects monthly value forward. Bucketing uses the engine's configured time zone.
// At least two transactions are required.
func (e *Engine) CalculateTransactionTrends(transactions []Transaction) (*TransactionTrendsReport, error) {
	if len(transactions) < minTrendRecords {
		return nil, &stats.InvalidRecordsError{Op: "transaction trends", Got: len(transactions), Need: minTrendRecords}
	}
	if err := validateTransactions(transactions); err != nil {
		return nil, err
	}

	months := e.bucketByMonth(transactions)
	volume := make([]float64, len(months))
	value := make([]float64, len(months))
	totalValue := 0.0
	for i, m := range months {
		volume[i] = float64(m.Volume)
		value[i] = m.Value
		totalValue += m.Value
	}

	report := &TransactionTrendsReport{
		Months:   months,
		Patterns: e.extractPatterns(transactions),
		Statistics: TransactionStatistics{
			TotalTransactions:    len(transactions),
			TotalValue:           totalValue,
			AverageMonthlyVolume: float64(len(transactions)) / float64(len(months)),
			AverageMonthlyValue:  totalValue / float64(len(months)),
			MonthsAnalyzed:       len(months),
		},
	}

	var err error
	if report.Trends.Volume, err = stats.NewDirectionalTrend(volume, e.cfg.StableEpsilon); err != nil {
		return nil, fmt.Errorf("volume trend: %w", err)
	}
	if report.Trends.Value, err = stats.NewDirectionalTrend(value, e.cfg.StableEpsilon); err != nil {
		return nil, fmt.Errorf("value trend: %w", err)
	}
	if report.Anomalies, err = stats.DetectAnomalies(value, e.cfg.AnomalyThreshold); err != nil {
		return nil, fmt.Errorf("value anomalies: %w", err)
	}
	if report.Forecast, err = stats.GenerateForecast(value, e.cfg.ForecastPeriods); err != nil {
		return nil, fmt.Errorf("value forecast: %w", err)
	}

	report.CalculatedAt = e.cfg.Clock()
	return report, nil
}

// bucketByMonth returns one bucket per calendar month that has at least one transaction, oldest first.
// Amounts are summed as decimals and converted once per bucket.
func (e *Engine) bucketByMonth(transactions []Transaction) []MonthBucket {
	type acc struct {
		volume int
		value  decimal.Decimal
	}
	byMonth := make(map[string]*acc)
	for _, tx := range transactions {
		key := tx.Timestamp.In(e.cfg.Location).Format("2006-01")
		a, ok := byMonth[key]
		if !ok {
			a = &acc{value: decimal.Zero}
			byMonth[key] = a
		}
		a.volume++
		a.value = a.value.Add(tx.Amount)
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	buckets := make([]MonthBucket, len(keys))
	for i, k := range keys {
		buckets[i] = MonthBucket{
			Month:  k,
			Volume: byMonth[k].volume,
			Value:  byMonth[k].value.InexactFloat64(),
		}
	}
	return buckets
}

// extractPatterns builds the 24 hour-of-day entries and 7 weekday entries, busiest first.
// A weekday's average is its transaction count divided by the number of distinct dates on that
// weekday that saw any activity.
func (e *Engine) extractPatterns(transactions []Transaction) TransactionPatterns {
	var hourCounts [24]int
	var dayCounts [7]int
	var dayDates [7]map[string]struct{}
	for i := range dayDates {
		dayDates[i] = make(map[string]struct{})
	}

	for _, tx := range transactions {
		local := tx.Timestamp.In(e.cfg.Location)
		hourCounts[local.Hour()]++
		wd := local.Weekday()
		dayCounts[wd]++
		dayDates[wd][local.Format("2006-01-02")] = struct{}{}
	}

	total := float64(len(transactions))
	hours := make([]PeakHour, 24)
	for h := range hours {
		hours[h] = PeakHour{
			Hour:             h,
			TransactionCount: hourCounts[h],
			Percentage:       round2(float64(hourCounts[h]) / total * 100),
		}
	}
	slices.SortStableFunc(hours, func(a, b PeakHour) int {
		return cmp.Compare(b.TransactionCount, a.TransactionCount)
	})

	days := make([]PeakDay, 7)
	for d := range days {
		avg := 0.0
		if n := len(dayDates[d]); n > 0 {
			avg = float64(dayCounts[d]) / float64(n)
		}
		days[d] = PeakDay{
			DayName:             time.Weekday(d).String(),
			AverageTransactions: round2(avg),
			TotalDays:           len(dayDates[d]),
		}
	}
	slices.SortStableFunc(days, func(a, b PeakDay) int {
		return cmp.Compare(b.AverageTransactions, a.AverageTransactions)
	})

	return TransactionPatterns{PeakHours: hours, PeakDays: days}
}

func validateTransactions(transactions []Transaction) error {
	for i, tx := range transactions {
		if tx.Timestamp.IsZero() {
			return &stats.InvalidInputError{Arg: fmt.Sprintf("transactions[%d].timestamp", i), Reason: "timestamp is missing"}
		}
		if tx.Amount.IsNegative() {
			return &stats.InvalidInputError{Arg: fmt.Sprintf("transactions[%d].amount", i), Reason: "amount cannot be negative"}
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
