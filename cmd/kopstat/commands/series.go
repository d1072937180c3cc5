package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"kopstat/internal/output"
	"kopstat/internal/simulation"
	"kopstat/internal/stats"
)

func (a *app) seriesCmd() *cobra.Command {
	var values []float64

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Run a single statistic over an ad-hoc series",
		Example: `  kopstat series trend --values 10,12,15,14,18
  kopstat series correlate --values 1,2,3 --with 2,4,7
  kopstat series describe --values 4,8,15,16,23,42 --p 10,95`,
	}
	cmd.PersistentFlags().Float64SliceVar(&values, "values", nil, "comma-separated observations, oldest first")

	trend := &cobra.Command{
		Use:   "trend",
		Short: "Least-squares trend against the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.engine.LinearTrend(values)
			if err != nil {
				return err
			}
			eps := a.cfg.EngineConfig().StableEpsilon
			dt := stats.DirectionalTrend{TrendResult: tr, Direction: stats.DirectionOf(tr.Slope, eps)}
			return a.formatter(cmd).Output(&output.Section{
				Title: "Linear Trend",
				Lines: []string{
					fmt.Sprintf("Direction: %s", dt.Direction),
					fmt.Sprintf("Slope:     %.4f", dt.Slope),
					fmt.Sprintf("Intercept: %.4f", dt.Intercept),
					fmt.Sprintf("R²:        %.4f", dt.RSquared),
				},
				Data: dt,
			})
		},
	}

	var periods int
	forecast := &cobra.Command{
		Use:   "forecast",
		Short: "Project the linear trend forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			if periods == 0 {
				periods = a.cfg.EngineConfig().ForecastPeriods
			}
			points, err := a.engine.GenerateForecast(values, periods)
			if err != nil {
				return err
			}
			table := &output.Table{Title: "Forecast", Headers: []string{"Period", "Value", "Confidence"}, Data: points}
			for _, p := range points {
				table.Rows = append(table.Rows, []string{fmt.Sprintf("+%d", p.Period), fmt.Sprintf("%.2f", p.Value), fmt.Sprintf("%.1f%%", p.Confidence*100)})
			}
			return a.formatter(cmd).Output(table)
		},
	}
	forecast.Flags().IntVar(&periods, "periods", 0, "number of periods to project (default FORECAST_PERIODS)")

	var threshold float64
	anomalies := &cobra.Command{
		Use:   "anomalies",
		Short: "Flag values with |z| at or above the threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.EngineConfig().AnomalyThreshold
			}
			found, err := a.engine.DetectAnomalies(values, threshold)
			if err != nil {
				return err
			}
			table := &output.Table{Title: "Anomalies", Headers: []string{"Index", "Value", "Z-Score", "Kind"}, Data: found}
			for _, an := range found {
				table.Rows = append(table.Rows, []string{fmt.Sprintf("%d", an.Index), fmt.Sprintf("%.2f", an.Value), fmt.Sprintf("%.2f", an.ZScore), string(an.Kind)})
			}
			return a.formatter(cmd).Output(table)
		},
	}
	anomalies.Flags().Float64Var(&threshold, "threshold", 0, "z-score threshold, 0 flags every value (default ANOMALY_THRESHOLD)")

	var percentiles []float64
	describe := &cobra.Command{
		Use:   "describe",
		Short: "Descriptive statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.engine.Describe(values)
			if err != nil {
				return err
			}
			table := &output.Table{
				Title:   "Summary",
				Headers: []string{"Statistic", "Value"},
				Rows: [][]string{
					{"count", fmt.Sprintf("%d", s.Count)},
					{"min", fmt.Sprintf("%.4f", s.Min)},
					{"max", fmt.Sprintf("%.4f", s.Max)},
					{"mean", fmt.Sprintf("%.4f", s.Mean)},
					{"median", fmt.Sprintf("%.4f", s.Median)},
					{"p25", fmt.Sprintf("%.4f", s.P25)},
					{"p75", fmt.Sprintf("%.4f", s.P75)},
					{"p90", fmt.Sprintf("%.4f", s.P90)},
					{"std_dev", fmt.Sprintf("%.4f", s.StdDev)},
				},
				Data: s,
			}
			for _, p := range percentiles {
				v, err := a.engine.Percentile(values, p)
				if err != nil {
					return err
				}
				table.Rows = append(table.Rows, []string{fmt.Sprintf("p%g", p), fmt.Sprintf("%.4f", v)})
			}
			return a.formatter(cmd).Output(table)
		},
	}
	describe.Flags().Float64SliceVar(&percentiles, "p", nil, "extra percentiles (0-100) to compute")

	var with []float64
	var truncate bool
	correlate := &cobra.Command{
		Use:   "correlate",
		Short: "Pearson correlation of --values with --with",
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y := values, with
			if truncate {
				x, y = stats.TruncateToShortest(x, y)
			}
			r, err := a.engine.Correlation(x, y)
			if err != nil {
				return err
			}
			return a.formatter(cmd).Output(&output.Section{
				Title: "Correlation",
				Lines: []string{fmt.Sprintf("Pearson r: %.4f (%d points)", r, len(x))},
				Data:  map[string]any{"correlation": r, "points": len(x)},
			})
		},
	}
	correlate.Flags().Float64SliceVar(&with, "with", nil, "second series, same length as --values")
	correlate.Flags().BoolVar(&truncate, "truncate", false, "cut both series to the shorter length")

	var simPeriods, trials int
	var seed int64
	simulate := &cobra.Command{
		Use:   "simulate",
		Short: "Monte-Carlo projection from resampled historical changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if simPeriods == 0 {
				simPeriods = a.cfg.EngineConfig().ForecastPeriods
			}
			engine, err := simulation.NewEngine(values, seed)
			if err != nil {
				return err
			}
			bands, err := engine.Run(simPeriods, trials)
			if err != nil {
				return err
			}
			table := &output.Table{Title: "Simulated Outcomes", Headers: []string{"Period", "P10", "P50", "P90"}, Data: bands}
			for _, b := range bands {
				table.Rows = append(table.Rows, []string{fmt.Sprintf("+%d", b.Period), fmt.Sprintf("%.2f", b.P10), fmt.Sprintf("%.2f", b.P50), fmt.Sprintf("%.2f", b.P90)})
			}
			return a.formatter(cmd).Output(table)
		},
	}
	simulate.Flags().IntVar(&simPeriods, "periods", 0, "number of periods to project (default FORECAST_PERIODS)")
	simulate.Flags().IntVar(&trials, "trials", simulation.DefaultTrials, "number of simulated paths")
	simulate.Flags().Int64Var(&seed, "seed", 0, "random seed (0 for time-based)")

	cmd.AddCommand(trend, forecast, anomalies, describe, correlate, simulate)
	return cmd
}
