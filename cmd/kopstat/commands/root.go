package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"kopstat/internal/analytics"
	"kopstat/internal/config"
	"kopstat/internal/logging"
	"kopstat/internal/output"
	"kopstat/internal/records"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	verbose bool
	format  string
	charts  bool

	cfg    *config.AppConfig
	engine analytics.Analyzer
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "kopstat",
		Short: "kopstat is a statistics and forecasting engine for cooperative bookkeeping data",
		Long: `Descriptive statistics, linear trends, anomaly detection and naive forecasts over a cooperative's
financial snapshots and transactions. Runs as a CLI or, without a subcommand, as an MCP server on stdio.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&a.format, "format", "f", "text", "output format: text, json or markdown")
	rootCmd.PersistentFlags().BoolVar(&a.charts, "charts", false, "include mermaid charts in markdown output (also ENABLE_MERMAID_CHARTS)")

	rootCmd.AddCommand(
		a.financialCmd(),
		a.transactionsCmd(),
		a.seriesCmd(),
		a.serveCmd(),
	)
	return rootCmd
}

// Execute runs the CLI until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	logging.Init(a.verbose)

	var err error
	a.cfg, err = config.Load()
	if err != nil {
		return err
	}
	if a.charts {
		a.cfg.EnableMermaidCharts = true
	}

	a.engine = analytics.NewInstrumented(analytics.NewEngine(a.cfg.EngineConfig()), log.Logger)

	log.Debug().
		Str("version", Version).
		Str("commit", Commit).
		Str("buildDate", BuildDate).
		Str("command", cmd.Name()).
		Msg("kopstat starting")
	return nil
}

func (a *app) formatter(cmd *cobra.Command) *output.Formatter {
	format := output.ParseFormat(a.format)
	colored := false
	if f, ok := cmd.OutOrStdout().(*os.File); ok && format == output.FormatText {
		colored = !color.NoColor && isatty.IsTerminal(f.Fd())
	}
	return output.NewFormatter(cmd.OutOrStdout(), format, colored)
}

// loader reads date-only values in the same zone the engine buckets by.
func (a *app) loader() records.Loader {
	return records.Loader{Location: a.cfg.EngineConfig().Location}
}

func (a *app) reportOptions(cmd *cobra.Command) output.ReportOptions {
	return output.ReportOptions{
		Charts:  a.cfg.EnableMermaidCharts,
		Colored: a.formatter(cmd).Colored(),
	}
}
