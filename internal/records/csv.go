package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// csvTable reads a CSV file with a header row and yields each row as a column lookup.
func csvTable(path string, required []string, row func(line int, get func(col string) string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := index[strings.ToLower(col)]; !ok {
			return fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		get := func(col string) string {
			i, ok := index[strings.ToLower(col)]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if err := row(line, get); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
}

func readSnapshotsCSV(path string) ([]rawSnapshot, error) {
	var out []rawSnapshot
	err := csvTable(path, []string{"date", "totalRevenue", "totalAssets", "memberCount"}, func(_ int, get func(string) string) error {
		revenue, err := decimal.NewFromString(get("totalRevenue"))
		if err != nil {
			return fmt.Errorf("totalRevenue: %w", err)
		}
		assets, err := decimal.NewFromString(get("totalAssets"))
		if err != nil {
			return fmt.Errorf("totalAssets: %w", err)
		}
		members, err := strconv.Atoi(get("memberCount"))
		if err != nil {
			return fmt.Errorf("memberCount: %w", err)
		}
		out = append(out, rawSnapshot{
			Date:         get("date"),
			TotalRevenue: revenue,
			TotalAssets:  assets,
			MemberCount:  members,
		})
		return nil
	})
	return out, err
}

func readTransactionsCSV(path string) ([]rawTransaction, error) {
	var out []rawTransaction
	err := csvTable(path, []string{"timestamp", "amount"}, func(_ int, get func(string) string) error {
		amount, err := decimal.NewFromString(get("amount"))
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		out = append(out, rawTransaction{
			ID:        get("id"),
			Timestamp: get("timestamp"),
			Amount:    amount,
		})
		return nil
	})
	return out, err
}
