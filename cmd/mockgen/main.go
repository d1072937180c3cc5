package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"kopstat/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	distribution := flag.String("distribution", "uniform", "Transaction amount distribution: uniform, weibull")
	outDir := flag.String("out", "./testdata", "Output directory for mock files")
	months := flag.Int("months", 24, "Number of monthly snapshots to generate")
	count := flag.Int("count", 2000, "Number of transactions to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible data")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Months:       *months,
		Count:        *count,
		Now:          time.Now().UTC(),
		Seed:         *seed,
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Months: %d, Transactions: %d, Seed: %d) to %s...\n",
		cfg.Scenario, cfg.Distribution, cfg.Months, cfg.Count, cfg.Seed, *outDir)

	snapshots, txs := engine.Generate(cfg)

	if err := engine.Save(*outDir, snapshots, txs); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
