package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"kopstat/internal/analytics"
	"kopstat/internal/records"
	"kopstat/internal/simulation"
	"kopstat/internal/stats"
	"kopstat/internal/visuals"
)

func toolResult(data any, charts ...string) (*mcp.CallToolResult, any, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	content := []mcp.Content{&mcp.TextContent{Text: string(out)}}
	for _, c := range charts {
		if c != "" {
			content = append(content, &mcp.TextContent{Text: c})
		}
	}
	return &mcp.CallToolResult{Content: content}, nil, nil
}

func (s *Server) loader() records.Loader {
	return records.Loader{Location: s.defaults.Location}
}

func toolError(err error) (*mcp.CallToolResult, any, error) {
	log.Warn().Err(err).Msg("Tool call failed")
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleLinearTrend(ctx context.Context, req *mcp.CallToolRequest, in SeriesInput) (*mcp.CallToolResult, any, error) {
	tr, err := s.engine.LinearTrend(in.Values)
	if err != nil {
		return toolError(err)
	}
	return toolResult(stats.DirectionalTrend{TrendResult: tr, Direction: stats.DirectionOf(tr.Slope, s.defaults.StableEpsilon)})
}

func (s *Server) handleCorrelation(ctx context.Context, req *mcp.CallToolRequest, in CorrelationInput) (*mcp.CallToolResult, any, error) {
	a, b := in.A, in.B
	if in.Truncate {
		a, b = stats.TruncateToShortest(a, b)
	}
	r, err := s.engine.Correlation(a, b)
	if err != nil {
		return toolError(err)
	}
	return toolResult(map[string]any{"correlation": r, "points": len(a)})
}

func (s *Server) handleDetectAnomalies(ctx context.Context, req *mcp.CallToolRequest, in AnomalyInput) (*mcp.CallToolResult, any, error) {
	threshold := s.defaults.AnomalyThreshold
	if in.Threshold != nil {
		threshold = *in.Threshold
	}
	anomalies, err := s.engine.DetectAnomalies(in.Values, threshold)
	if err != nil {
		return toolError(err)
	}
	return toolResult(map[string]any{"threshold": threshold, "anomalies": anomalies})
}

func (s *Server) handleGenerateForecast(ctx context.Context, req *mcp.CallToolRequest, in ForecastInput) (*mcp.CallToolResult, any, error) {
	periods := in.Periods
	if periods == 0 {
		periods = s.defaults.ForecastPeriods
	}
	forecast, err := s.engine.GenerateForecast(in.Values, periods)
	if err != nil {
		return toolError(err)
	}

	var chart string
	if s.charts {
		if tr, err := s.engine.LinearTrend(in.Values); err == nil {
			chart = visuals.GenerateTrendChart("Forecast", "Value", nil, in.Values, tr, forecast)
		}
	}
	return toolResult(map[string]any{"forecast": forecast}, chart)
}

func (s *Server) handleSimulateForecast(ctx context.Context, req *mcp.CallToolRequest, in SimulateInput) (*mcp.CallToolResult, any, error) {
	periods := in.Periods
	if periods == 0 {
		periods = s.defaults.ForecastPeriods
	}
	engine, err := simulation.NewEngine(in.Values, in.Seed)
	if err != nil {
		return toolError(err)
	}
	bands, err := engine.Run(periods, in.Trials)
	if err != nil {
		return toolError(err)
	}
	return toolResult(map[string]any{"bands": bands})
}

func (s *Server) handleDescribeSeries(ctx context.Context, req *mcp.CallToolRequest, in DescribeInput) (*mcp.CallToolResult, any, error) {
	summary, err := s.engine.Describe(in.Values)
	if err != nil {
		return toolError(err)
	}
	if len(in.Percentiles) == 0 {
		return toolResult(summary)
	}

	extra := make(map[string]float64, len(in.Percentiles))
	for _, p := range in.Percentiles {
		v, err := s.engine.Percentile(in.Values, p)
		if err != nil {
			return toolError(err)
		}
		extra[fmt.Sprintf("p%g", p)] = v
	}
	return toolResult(map[string]any{"summary": summary, "percentiles": extra})
}

func (s *Server) handleFinancialTrends(ctx context.Context, req *mcp.CallToolRequest, in FinancialTrendsInput) (*mcp.CallToolResult, any, error) {
	snapshots, err := records.LoadAll(ctx, in.Paths, s.loader().Snapshots)
	if err != nil {
		return toolError(err)
	}
	for i, r := range in.Records {
		d, err := records.ParseTimeIn(r.Date, s.defaults.Location)
		if err != nil {
			return toolError(fmt.Errorf("records[%d]: %w", i, err))
		}
		snapshots = append(snapshots, analytics.FinancialSnapshot{
			Date:         d,
			TotalRevenue: decimal.NewFromFloat(r.TotalRevenue),
			TotalAssets:  decimal.NewFromFloat(r.TotalAssets),
			MemberCount:  r.MemberCount,
		})
	}

	report, err := s.engine.CalculateFinancialTrends(snapshots)
	if err != nil {
		return toolError(err)
	}

	var charts []string
	if s.charts {
		charts = append(charts,
			visuals.GenerateTrendChart("Revenue with Forecast", "Revenue", report.Periods, report.Stability.Values, report.Trends.Revenue.TrendResult, report.Forecasts.Revenue),
			visuals.GenerateXmRChart("Revenue Stability (XmR)", "Revenue", report.Stability, report.Periods),
		)
	}
	return toolResult(report, charts...)
}

func (s *Server) handleTransactionTrends(ctx context.Context, req *mcp.CallToolRequest, in TransactionTrendsInput) (*mcp.CallToolResult, any, error) {
	txs, err := records.LoadAll(ctx, in.Paths, s.loader().Transactions)
	if err != nil {
		return toolError(err)
	}
	for i, r := range in.Records {
		ts, err := records.ParseTimeIn(r.Timestamp, s.defaults.Location)
		if err != nil {
			return toolError(fmt.Errorf("records[%d]: %w", i, err))
		}
		txs = append(txs, analytics.Transaction{ID: r.ID, Timestamp: ts, Amount: decimal.NewFromFloat(r.Amount)})
	}

	report, err := s.engine.CalculateTransactionTrends(txs)
	if err != nil {
		return toolError(err)
	}

	var charts []string
	if s.charts {
		labels := make([]string, len(report.Months))
		values := make([]float64, len(report.Months))
		for i, m := range report.Months {
			labels[i], values[i] = m.Month, m.Value
		}
		charts = append(charts,
			visuals.GenerateTrendChart("Monthly Value with Forecast", "Value", labels, values, report.Trends.Value.TrendResult, report.Forecast),
			visuals.GeneratePeakHoursChart(report.Patterns.PeakHours),
		)
	}
	return toolResult(report, charts...)
}
