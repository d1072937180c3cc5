package records

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"kopstat/internal/analytics"
)

// maxParallelLoads bounds concurrent file reads in LoadAll.
const maxParallelLoads = 4

// LoadAll loads every path concurrently and concatenates the results in path order.
// The first failure cancels the remaining loads.
func LoadAll[T any](ctx context.Context, paths []string, load func(path string) ([]T, error)) ([]T, error) {
	results := make([][]T, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := load(p)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// SaveSnapshots writes snapshots to path as JSONL.
func SaveSnapshots(path string, snapshots []analytics.FinancialSnapshot) error {
	return saveJSONL(path, snapshots)
}

// SaveTransactions writes transactions to path as JSONL.
func SaveTransactions(path string, transactions []analytics.Transaction) error {
	return saveJSONL(path, transactions)
}

// saveJSONL writes to a temp file and renames it over path.
func saveJSONL[T any](path string, items []T) error {
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename records file: %w", err)
	}

	log.Info().Str("path", path).Int("count", len(items)).Msg("Records saved")
	return nil
}
