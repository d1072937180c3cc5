// Package records reads and writes the engine's input records: financial snapshots and
// transactions, as JSON arrays, JSONL or CSV files.
package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"kopstat/internal/analytics"
)

// Format is an on-disk record encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// DateLayout is the short date layout accepted alongside RFC3339.
const DateLayout = "2006-01-02"

// DetectFormat picks the encoding from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported record file %q: expected .json, .jsonl or .csv", path)
	}
}

// ParseTime accepts a short date (midnight UTC) or an RFC3339 timestamp.
func ParseTime(s string) (time.Time, error) {
	return ParseTimeIn(s, time.UTC)
}

// ParseTimeIn is ParseTime with short dates read as midnight in loc.
// RFC3339 timestamps keep their own offset.
func ParseTimeIn(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}

type rawSnapshot struct {
	Date         string          `json:"date"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalAssets  decimal.Decimal `json:"totalAssets"`
	MemberCount  int             `json:"memberCount"`
}

func (r rawSnapshot) toSnapshot(loc *time.Location) (analytics.FinancialSnapshot, error) {
	d, err := ParseTimeIn(r.Date, loc)
	if err != nil {
		return analytics.FinancialSnapshot{}, err
	}
	return analytics.FinancialSnapshot{
		Date:         d,
		TotalRevenue: r.TotalRevenue,
		TotalAssets:  r.TotalAssets,
		MemberCount:  r.MemberCount,
	}, nil
}

type rawTransaction struct {
	ID        string          `json:"id"`
	Timestamp string          `json:"timestamp"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r rawTransaction) toTransaction(loc *time.Location) (analytics.Transaction, error) {
	ts, err := ParseTimeIn(r.Timestamp, loc)
	if err != nil {
		return analytics.Transaction{}, err
	}
	return analytics.Transaction{ID: r.ID, Timestamp: ts, Amount: r.Amount}, nil
}

// Loader reads record files, placing date-only values at midnight in Location (UTC when nil).
// Location should match the engine's bucketing zone so dates do not shift a day.
type Loader struct {
	Location *time.Location
}

// LoadSnapshots reads financial snapshots with date-only values at midnight UTC.
func LoadSnapshots(path string) ([]analytics.FinancialSnapshot, error) {
	return Loader{}.Snapshots(path)
}

// LoadTransactions reads transactions with date-only values at midnight UTC.
func LoadTransactions(path string) ([]analytics.Transaction, error) {
	return Loader{}.Transactions(path)
}

// Snapshots reads financial snapshots from a .json, .jsonl or .csv file.
func (l Loader) Snapshots(path string) ([]analytics.FinancialSnapshot, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var raw []rawSnapshot
	switch format {
	case FormatCSV:
		raw, err = readSnapshotsCSV(path)
	default:
		raw, err = readJSON[rawSnapshot](path, format)
	}
	if err != nil {
		return nil, err
	}

	out := make([]analytics.FinancialSnapshot, 0, len(raw))
	for i, r := range raw {
		s, err := r.toSnapshot(l.Location)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i+1, err)
		}
		out = append(out, s)
	}

	log.Debug().Str("path", path).Int("count", len(out)).Msg("Loaded financial snapshots")
	return out, nil
}

// Transactions reads transactions from a .json, .jsonl or .csv file.
func (l Loader) Transactions(path string) ([]analytics.Transaction, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var raw []rawTransaction
	switch format {
	case FormatCSV:
		raw, err = readTransactionsCSV(path)
	default:
		raw, err = readJSON[rawTransaction](path, format)
	}
	if err != nil {
		return nil, err
	}

	out := make([]analytics.Transaction, 0, len(raw))
	for i, r := range raw {
		tx, err := r.toTransaction(l.Location)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i+1, err)
		}
		out = append(out, tx)
	}

	log.Debug().Str("path", path).Int("count", len(out)).Msg("Loaded transactions")
	return out, nil
}

func readJSON[T any](path string, format Format) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if format == FormatJSON {
		var out []T
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return out, nil
	}

	var out []T
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("%s:%d: invalid JSON line: %w", path, line, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return out, nil
}
