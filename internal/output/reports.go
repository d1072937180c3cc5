package output

import (
	"fmt"
	"strconv"
	"time"

	"kopstat/internal/analytics"
	"kopstat/internal/stats"
	"kopstat/internal/visuals"
)

// ReportOptions controls how analytics reports are turned into Renderables.
type ReportOptions struct {
	// Charts appends mermaid charts to markdown output.
	Charts bool
	// Colored colours trend directions in text output.
	Colored bool
	// TopHours limits the peak-hours table; 0 shows every hour with activity.
	TopHours int
}

// FinancialReport builds the renderable view of a financial trends report.
func FinancialReport(r *analytics.FinancialTrendsReport, opts ReportOptions) *Report {
	span := ""
	if len(r.Periods) > 0 {
		span = fmt.Sprintf("%s to %s", r.Periods[0], r.Periods[len(r.Periods)-1])
	}

	overview := &Section{
		Title: "Overview",
		Lines: []string{
			fmt.Sprintf("Data points:   %d", r.DataPoints),
			fmt.Sprintf("Periods:       %s", span),
			fmt.Sprintf("Calculated at: %s", r.CalculatedAt.Format(time.RFC3339)),
		},
	}

	trends := &Table{
		Title:   "Trends",
		Headers: []string{"Series", "Direction", "Slope", "Intercept", "R²"},
		Rows: [][]string{
			trendRow("Revenue", r.Trends.Revenue, opts.Colored),
			trendRow("Assets", r.Trends.Assets, opts.Colored),
			trendRow("Members", r.Trends.Members, opts.Colored),
		},
	}

	correlations := &Table{
		Title:   "Correlations",
		Headers: []string{"Pair", "Pearson r"},
		Rows: [][]string{
			{"Revenue / Assets", num(r.Correlations.RevenueAssets, 3)},
			{"Revenue / Members", num(r.Correlations.RevenueMembers, 3)},
		},
	}

	anomalies := &Table{
		Title:   "Anomalies",
		Headers: []string{"Series", "Period", "Value", "Z-Score", "Kind"},
	}
	for _, s := range []struct {
		name string
		list []stats.Anomaly
	}{
		{"Revenue", r.Anomalies.Revenue},
		{"Assets", r.Anomalies.Assets},
		{"Members", r.Anomalies.Members},
	} {
		for _, a := range s.list {
			anomalies.Rows = append(anomalies.Rows, []string{
				s.name, labelAt(r.Periods, a.Index), num(a.Value, 2), num(a.ZScore, 2), string(a.Kind),
			})
		}
	}

	forecasts := &Table{
		Title:   "Forecast",
		Headers: []string{"Period", "Revenue", "Assets", "Members", "Confidence"},
	}
	for i, p := range r.Forecasts.Revenue {
		row := []string{fmt.Sprintf("+%d", p.Period), num(p.Value, 2), "", "", pct(p.Confidence)}
		if i < len(r.Forecasts.Assets) {
			row[2] = num(r.Forecasts.Assets[i].Value, 2)
		}
		if i < len(r.Forecasts.Members) {
			row[3] = num(r.Forecasts.Members[i].Value, 0)
		}
		forecasts.Rows = append(forecasts.Rows, row)
	}

	stability := stabilitySection("Revenue Stability", r.Stability)
	if opts.Charts {
		stability.Chart = visuals.GenerateXmRChart("Revenue Stability (XmR)", "Revenue", r.Stability, r.Periods)
	}

	parts := []Renderable{overview, trends, correlations}
	if len(anomalies.Rows) > 0 {
		parts = append(parts, anomalies)
	}
	parts = append(parts, forecasts, stability)

	if opts.Charts {
		revenue := r.Stability.Values
		parts = append(parts, &Section{
			Title: "Revenue Trend",
			Chart: visuals.GenerateTrendChart("Revenue with Forecast", "Revenue", r.Periods, revenue, r.Trends.Revenue.TrendResult, r.Forecasts.Revenue),
		})
	}

	return &Report{Title: "Financial Trends", Parts: parts, Data: r}
}

// TransactionReport builds the renderable view of a transaction trends report.
func TransactionReport(r *analytics.TransactionTrendsReport, opts ReportOptions) *Report {
	s := r.Statistics
	overview := &Section{
		Title: "Statistics",
		Lines: []string{
			fmt.Sprintf("Transactions:           %d", s.TotalTransactions),
			fmt.Sprintf("Total value:            %s", num(s.TotalValue, 2)),
			fmt.Sprintf("Months analyzed:        %d", s.MonthsAnalyzed),
			fmt.Sprintf("Average monthly volume: %s", num(s.AverageMonthlyVolume, 2)),
			fmt.Sprintf("Average monthly value:  %s", num(s.AverageMonthlyValue, 2)),
			fmt.Sprintf("Calculated at:          %s", r.CalculatedAt.Format(time.RFC3339)),
		},
	}

	trends := &Table{
		Title:   "Trends",
		Headers: []string{"Series", "Direction", "Slope", "Intercept", "R²"},
		Rows: [][]string{
			trendRow("Volume", r.Trends.Volume, opts.Colored),
			trendRow("Value", r.Trends.Value, opts.Colored),
		},
	}

	months := &Table{Title: "Monthly Activity", Headers: []string{"Month", "Volume", "Value"}}
	labels := make([]string, len(r.Months))
	values := make([]float64, len(r.Months))
	for i, m := range r.Months {
		labels[i] = m.Month
		values[i] = m.Value
		months.Rows = append(months.Rows, []string{m.Month, strconv.Itoa(m.Volume), num(m.Value, 2)})
	}

	hours := &Table{Title: "Peak Hours", Headers: []string{"Hour", "Transactions", "Share"}}
	for _, h := range r.Patterns.PeakHours {
		if h.TransactionCount == 0 || (opts.TopHours > 0 && len(hours.Rows) >= opts.TopHours) {
			break
		}
		hours.Rows = append(hours.Rows, []string{fmt.Sprintf("%02d:00", h.Hour), strconv.Itoa(h.TransactionCount), num(h.Percentage, 2) + "%"})
	}

	days := &Table{Title: "Peak Days", Headers: []string{"Day", "Avg Transactions", "Active Days"}}
	for _, d := range r.Patterns.PeakDays {
		days.Rows = append(days.Rows, []string{d.DayName, num(d.AverageTransactions, 2), strconv.Itoa(d.TotalDays)})
	}

	forecast := &Table{Title: "Value Forecast", Headers: []string{"Period", "Value", "Confidence"}}
	for _, p := range r.Forecast {
		forecast.Rows = append(forecast.Rows, []string{fmt.Sprintf("+%d", p.Period), num(p.Value, 2), pct(p.Confidence)})
	}

	parts := []Renderable{overview, trends, months, hours, days}
	if len(r.Anomalies) > 0 {
		anomalies := &Table{Title: "Anomalous Months", Headers: []string{"Month", "Value", "Z-Score", "Kind"}}
		for _, a := range r.Anomalies {
			anomalies.Rows = append(anomalies.Rows, []string{labelAt(labels, a.Index), num(a.Value, 2), num(a.ZScore, 2), string(a.Kind)})
		}
		parts = append(parts, anomalies)
	}
	parts = append(parts, forecast)

	if opts.Charts {
		parts = append(parts,
			&Section{Title: "Monthly Value Trend", Chart: visuals.GenerateTrendChart("Monthly Value with Forecast", "Value", labels, values, r.Trends.Value.TrendResult, r.Forecast)},
			&Section{Title: "Activity by Hour", Chart: visuals.GeneratePeakHoursChart(r.Patterns.PeakHours)},
			&Section{Title: "Activity by Weekday", Chart: visuals.GeneratePeakDaysChart(r.Patterns.PeakDays)},
		)
	}

	return &Report{Title: "Transaction Trends", Parts: parts, Data: r}
}

func stabilitySection(title string, x stats.XmRResult) *Section {
	s := &Section{
		Title: title,
		Lines: []string{
			fmt.Sprintf("Status:  %s", x.Status),
			fmt.Sprintf("Average: %s", num(x.Average, 2)),
			fmt.Sprintf("Limits:  %s .. %s", num(x.LNPL, 2), num(x.UNPL, 2)),
		},
		Data: x,
	}
	for _, sig := range x.Signals {
		where := sig.Label
		if where == "" {
			where = fmt.Sprintf("#%d", sig.Index+1)
		}
		s.Lines = append(s.Lines, fmt.Sprintf("Signal:  %s (%s) %s", where, sig.Type, sig.Description))
	}
	return s
}

func trendRow(name string, t stats.DirectionalTrend, colored bool) []string {
	dir := string(t.Direction)
	if colored {
		dir = DirectionColor(t.Direction, dir)
	}
	return []string{name, dir, num(t.Slope, 4), num(t.Intercept, 2), num(t.RSquared, 3)}
}

func labelAt(labels []string, i int) string {
	if i >= 0 && i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("#%d", i+1)
}

func num(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func pct(v float64) string {
	return num(v*100, 1) + "%"
}
