package commands

import (
	"github.com/spf13/cobra"

	"kopstat/internal/output"
	"kopstat/internal/records"
)

func (a *app) transactionsCmd() *cobra.Command {
	var topHours int

	cmd := &cobra.Command{
		Use:   "transactions FILE...",
		Short: "Analyze transactions by month, hour of day and weekday",
		Long: `Loads transactions from .json, .jsonl or .csv files (CSV columns: timestamp,amount[,id])
and reports monthly volume/value trends, peak hours and weekdays, anomalous months and a
value forecast. Buckets use KOPSTAT_TIMEZONE (default UTC).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := records.LoadAll(cmd.Context(), args, a.loader().Transactions)
			if err != nil {
				return err
			}
			report, err := a.engine.CalculateTransactionTrends(txs)
			if err != nil {
				return err
			}
			opts := a.reportOptions(cmd)
			opts.TopHours = topHours
			return a.formatter(cmd).Output(output.TransactionReport(report, opts))
		},
	}

	cmd.Flags().IntVar(&topHours, "top-hours", 5, "number of busiest hours to list (0 for all with activity)")
	return cmd
}
