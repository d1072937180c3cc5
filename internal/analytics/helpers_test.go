package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	cfg := DefaultConfig()
	cfg.Clock = func() time.Time { return fixedNow }
	return NewEngine(cfg)
}

func snapshot(date string, revenue, assets float64, members int) FinancialSnapshot {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return FinancialSnapshot{
		Date:         d,
		TotalRevenue: decimal.NewFromFloat(revenue),
		TotalAssets:  decimal.NewFromFloat(assets),
		MemberCount:  members,
	}
}

func tx(ts string, amount float64) Transaction {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return Transaction{Timestamp: t, Amount: decimal.NewFromFloat(amount)}
}
