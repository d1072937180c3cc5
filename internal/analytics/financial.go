package analytics

import (
	"fmt"
	"slices"

	"kopstat/internal/stats"
)

const minTrendRecords = 2

// CalculateFinancialTrends fits trends to revenue, assets and member counts over the snapshots
// (in date order), correlates revenue with the other two, flags anomalies, projects each series
// forward and charts revenue stability. At least two snapshots are required.
func (e *Engine) CalculateFinancialTrends(records []FinancialSnapshot) (*FinancialTrendsReport, error) {
	if len(records) < minTrendRecords {
		return nil, &stats.InvalidRecordsError{Op: "financial trends", Got: len(records), Need: minTrendRecords}
	}
	if err := validateSnapshots(records); err != nil {
		return nil, err
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b FinancialSnapshot) int {
		return a.Date.Compare(b.Date)
	})

	n := len(sorted)
	revenue := make([]float64, n)
	assets := make([]float64, n)
	members := make([]float64, n)
	periods := make([]string, n)
	for i, r := range sorted {
		revenue[i] = r.TotalRevenue.InexactFloat64()
		assets[i] = r.TotalAssets.InexactFloat64()
		members[i] = float64(r.MemberCount)
		periods[i] = r.Date.In(e.cfg.Location).Format("2006-01-02")
	}

	report := &FinancialTrendsReport{
		Periods:    periods,
		DataPoints: len(records),
	}

	var err error
	series := []struct {
		name     string
		values   []float64
		trend    *stats.DirectionalTrend
		anomaly  *[]stats.Anomaly
		forecast *[]stats.ForecastPoint
	}{
		{"revenue", revenue, &report.Trends.Revenue, &report.Anomalies.Revenue, &report.Forecasts.Revenue},
		{"assets", assets, &report.Trends.Assets, &report.Anomalies.Assets, &report.Forecasts.Assets},
		{"members", members, &report.Trends.Members, &report.Anomalies.Members, &report.Forecasts.Members},
	}
	for _, s := range series {
		if *s.trend, err = stats.NewDirectionalTrend(s.values, e.cfg.StableEpsilon); err != nil {
			return nil, fmt.Errorf("%s trend: %w", s.name, err)
		}
		if *s.anomaly, err = stats.DetectAnomalies(s.values, e.cfg.AnomalyThreshold); err != nil {
			return nil, fmt.Errorf("%s anomalies: %w", s.name, err)
		}
		if *s.forecast, err = stats.GenerateForecast(s.values, e.cfg.ForecastPeriods); err != nil {
			return nil, fmt.Errorf("%s forecast: %w", s.name, err)
		}
	}

	if report.Correlations.RevenueAssets, err = stats.Correlation(revenue, assets); err != nil {
		return nil, fmt.Errorf("revenue/assets correlation: %w", err)
	}
	if report.Correlations.RevenueMembers, err = stats.Correlation(revenue, members); err != nil {
		return nil, fmt.Errorf("revenue/members correlation: %w", err)
	}

	report.Stability = stats.CalculateXmRWithLabels(revenue, periods)
	report.CalculatedAt = e.cfg.Clock()

	return report, nil
}

func validateSnapshots(records []FinancialSnapshot) error {
	for i, r := range records {
		if r.Date.IsZero() {
			return &stats.InvalidInputError{Arg: fmt.Sprintf("records[%d].date", i), Reason: "date is missing"}
		}
		if r.MemberCount < 0 {
			return &stats.InvalidInputError{Arg: fmt.Sprintf("records[%d].memberCount", i), Reason: "member count cannot be negative"}
		}
		if r.TotalRevenue.IsNegative() {
			return &stats.InvalidInputError{Arg: fmt.Sprintf("records[%d].totalRevenue", i), Reason: "revenue cannot be negative"}
		}
		if r.TotalAssets.IsNegative() {
			return &stats.InvalidInputError{Arg: fmt.Sprintf("records[%d].totalAssets", i), Reason: "assets cannot be negative"}
		}
	}
	return nil
}
