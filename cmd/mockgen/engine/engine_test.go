package engine

import (
	"path/filepath"
	"testing"
	"time"

	"kopstat/internal/analytics"
	"kopstat/internal/records"
	"kopstat/internal/stats"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestGenerate_Shape(t *testing.T) {
	snaps, txs := Generate(GeneratorConfig{Scenario: "mild", Months: 12, Count: 500, Now: now, Seed: 7})

	if len(snaps) != 12 {
		t.Fatalf("expected 12 snapshots, got %d", len(snaps))
	}
	if len(txs) != 500 {
		t.Fatalf("expected 500 transactions, got %d", len(txs))
	}
	if got := snaps[len(snaps)-1].Date.Format("2006-01-02"); got != "2024-06-30" {
		t.Errorf("expected last snapshot at 2024-06-30, got %s", got)
	}
	if got := snaps[0].Date.Format("2006-01-02"); got != "2023-07-31" {
		t.Errorf("expected first snapshot at 2023-07-31, got %s", got)
	}
	for i, tx := range txs {
		if tx.Amount.IsNegative() {
			t.Fatalf("transaction %d has negative amount", i)
		}
		if tx.Timestamp.After(now) {
			t.Fatalf("transaction %d is in the future: %s", i, tx.Timestamp)
		}
		if h := tx.Timestamp.Hour(); hourWeights[h] == 0 {
			t.Fatalf("transaction %d at closed hour %d", i, h)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Scenario: "chaos", Distribution: "weibull", Months: 6, Count: 50, Now: now, Seed: 42}
	s1, t1 := Generate(cfg)
	s2, t2 := Generate(cfg)

	for i := range s1 {
		if !s1[i].TotalRevenue.Equal(s2[i].TotalRevenue) {
			t.Fatalf("snapshot %d differs between runs with the same seed", i)
		}
	}
	for i := range t1 {
		if !t1[i].Timestamp.Equal(t2[i].Timestamp) || !t1[i].Amount.Equal(t2[i].Amount) {
			t.Fatalf("transaction %d differs between runs with the same seed", i)
		}
	}
}

func TestGenerate_MildGrowsDriftReverses(t *testing.T) {
	engine := analytics.NewEngine(analytics.DefaultConfig())

	mild, _ := Generate(GeneratorConfig{Scenario: "mild", Months: 24, Count: 10, Now: now, Seed: 1})
	report, err := engine.CalculateFinancialTrends(mild)
	if err != nil {
		t.Fatalf("financial trends failed: %v", err)
	}
	if report.Trends.Revenue.Direction != stats.DirectionIncreasing {
		t.Errorf("expected mild revenue to increase, got %s", report.Trends.Revenue.Direction)
	}

	drift, _ := Generate(GeneratorConfig{Scenario: "drift", Months: 24, Count: 10, Now: now, Seed: 1})
	tail, err := engine.LinearTrend(revenueOf(drift[13:]))
	if err != nil {
		t.Fatalf("linear trend failed: %v", err)
	}
	if tail.Slope >= 0 {
		t.Errorf("expected drift revenue to fall in the second half, slope %.2f", tail.Slope)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	snaps, txs := Generate(GeneratorConfig{Scenario: "mild", Months: 3, Count: 20, Now: now, Seed: 3})

	if err := Save(dir, snaps, txs); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loadedSnaps, err := records.LoadSnapshots(filepath.Join(dir, SnapshotsFile))
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	loadedTxs, err := records.LoadTransactions(filepath.Join(dir, TransactionsFile))
	if err != nil {
		t.Fatalf("LoadTransactions failed: %v", err)
	}
	if len(loadedSnaps) != 3 || len(loadedTxs) != 20 {
		t.Errorf("expected 3 snapshots and 20 transactions, got %d and %d", len(loadedSnaps), len(loadedTxs))
	}
}

func revenueOf(snaps []analytics.FinancialSnapshot) []float64 {
	out := make([]float64, len(snaps))
	for i, s := range snaps {
		out[i] = s.TotalRevenue.InexactFloat64()
	}
	return out
}
