package engine

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"kopstat/internal/analytics"
	"kopstat/internal/records"
)

const (
	SnapshotsFile    = "snapshots.jsonl"
	TransactionsFile = "transactions.jsonl"
)

type GeneratorConfig struct {
	Scenario     string // "mild", "chaos" or "drift"
	Distribution string // transaction amounts: "uniform" or "weibull"
	Months       int
	Count        int // transactions
	Now          time.Time
	Seed         int64
}

// hourWeights approximates a cooperative shop's day: morning and late-afternoon peaks, closed at night.
var hourWeights = [24]float64{
	0, 0, 0, 0, 0, 0, 1, 3, 6, 9, 8, 6,
	5, 5, 6, 8, 9, 7, 4, 2, 1, 0, 0, 0,
}

func Generate(cfg GeneratorConfig) ([]analytics.FinancialSnapshot, []analytics.Transaction) {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Months < 2 {
		cfg.Months = 2
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	// First day of the oldest month; the newest month is the one containing Now.
	cur := time.Date(cfg.Now.Year(), cfg.Now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := cur.AddDate(0, -(cfg.Months - 1), 0)

	return generateSnapshots(cfg, rng, start), generateTransactions(cfg, rng, start)
}

func generateSnapshots(cfg GeneratorConfig, rng *rand.Rand, start time.Time) []analytics.FinancialSnapshot {
	snapshots := make([]analytics.FinancialSnapshot, 0, cfg.Months)

	revenue := 50_000_000.0
	assets := 750_000_000.0
	members := 120

	for i := 0; i < cfg.Months; i++ {
		// Mild: ~2% monthly growth with +-3% noise
		growth := 0.02
		switch cfg.Scenario {
		case "drift":
			if i > cfg.Months/2 {
				growth = -0.04
			}
		case "chaos":
			growth = 0.02 + (rng.Float64()-0.5)*0.2
		}
		revenue = math.Max(0, revenue*(1+growth+(rng.Float64()-0.5)*0.06))

		reported := revenue
		if cfg.Scenario == "chaos" && rng.Float64() < 0.15 {
			reported *= 2 + rng.Float64()*2 // one-off windfall
		}

		assets += reported * 0.1
		members += rng.Intn(4)
		if cfg.Scenario == "drift" && i > cfg.Months/2 {
			members = max(0, members-rng.Intn(5))
		}

		monthEnd := start.AddDate(0, i+1, -1)
		snapshots = append(snapshots, analytics.FinancialSnapshot{
			Date:         monthEnd,
			TotalRevenue: decimal.NewFromFloat(reported).Round(2),
			TotalAssets:  decimal.NewFromFloat(assets).Round(2),
			MemberCount:  members,
		})
	}
	return snapshots
}

func generateTransactions(cfg GeneratorConfig, rng *rand.Rand, start time.Time) []analytics.Transaction {
	txs := make([]analytics.Transaction, 0, cfg.Count)

	end := start.AddDate(0, cfg.Months, 0)
	if end.After(cfg.Now) {
		end = cfg.Now
	}
	days := int(end.Sub(start).Hours()/24) + 1

	for i := 0; i < cfg.Count; i++ {
		progress := float64(i) / float64(max(1, cfg.Count))
		day := start.AddDate(0, 0, rng.Intn(days))
		ts := day.Add(time.Duration(sampleHour(rng))*time.Hour + time.Duration(rng.Intn(3600))*time.Second)
		if ts.After(cfg.Now) {
			ts = cfg.Now
		}

		var amount float64
		if cfg.Distribution == "weibull" {
			amount = 1000 * weibullSample(rng, 1.5, 60)
		} else {
			amount = 10_000 + rng.Float64()*190_000
		}
		switch cfg.Scenario {
		case "chaos":
			if rng.Float64() < 0.05 {
				amount *= 10 + rng.Float64()*20 // bulk purchase
			}
		case "drift":
			amount *= 1.5 - progress
		}

		txs = append(txs, analytics.Transaction{
			ID:        fmt.Sprintf("TX-%06d", i+1),
			Timestamp: ts,
			Amount:    decimal.NewFromFloat(math.Max(0, amount)).Round(0),
		})
	}
	return txs
}

func sampleHour(rng *rand.Rand) int {
	total := 0.0
	for _, w := range hourWeights {
		total += w
	}
	u := rng.Float64() * total
	for h, w := range hourWeights {
		if u < w {
			return h
		}
		u -= w
	}
	return 9
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func Save(outDir string, snapshots []analytics.FinancialSnapshot, txs []analytics.Transaction) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	if err := records.SaveSnapshots(filepath.Join(outDir, SnapshotsFile), snapshots); err != nil {
		return err
	}
	return records.SaveTransactions(filepath.Join(outDir, TransactionsFile), txs)
}
