package commands

import (
	"github.com/spf13/cobra"

	"kopstat/internal/output"
	"kopstat/internal/records"
)

func (a *app) financialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "financial FILE...",
		Short: "Analyze financial snapshots (revenue, assets, members)",
		Long: `Loads financial snapshots from .json, .jsonl or .csv files (CSV columns:
date,totalRevenue,totalAssets,memberCount) and reports trends, correlations,
anomalies, forecasts and revenue stability.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots, err := records.LoadAll(cmd.Context(), args, a.loader().Snapshots)
			if err != nil {
				return err
			}
			report, err := a.engine.CalculateFinancialTrends(snapshots)
			if err != nil {
				return err
			}
			return a.formatter(cmd).Output(output.FinancialReport(report, a.reportOptions(cmd)))
		},
	}
}
