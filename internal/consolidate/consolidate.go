// Package consolidate unions per-source canonical files for one reporting
// period into a single dataset. It performs no reconciliation: cross-source
// duplicates are excluded upstream by the adapter denylists, and every input
// is presumed already canonical — a wrong column set is a defect, not
// something to absorb.
package consolidate

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/domain"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/logger"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/statement"
)

// OutputFile returns the consolidated file name for a period.
func OutputFile(month, year int) string {
	return fmt.Sprintf("consolidated_%04d_%02d.csv", year, month)
}

// Union reads every per-source canonical file, validates its schema and
// returns the unioned rows. Input order across files follows the given path
// order; row order within a file is preserved.
func Union(paths []string) ([][]string, error) {
	var all [][]string
	for _, path := range paths {
		header, rows, err := statement.ReadCanonical(path)
		if err != nil {
			return nil, fmt.Errorf("consolidate.Union: %w", err)
		}
		if err := checkSchema(header); err != nil {
			return nil, fmt.Errorf("consolidate.Union: %s: %w", path, err)
		}
		all = append(all, rows...)
	}
	return all, nil
}

// checkSchema asserts positional equality with the canonical column set.
func checkSchema(header []string) error {
	if len(header) != len(domain.Columns) {
		return fmt.Errorf("schema mismatch: %d columns, want %d", len(header), len(domain.Columns))
	}
	for i, name := range header {
		if name != domain.Columns[i] {
			return fmt.Errorf("schema mismatch: column %d is %q, want %q", i+1, name, domain.Columns[i])
		}
	}
	return nil
}

// Consolidate unions the given per-source files into outPath. Paths that do
// not exist are skipped with a warning, so a period with only a subset of
// sources still consolidates.
func Consolidate(ctx context.Context, paths []string, outPath string) error {
	log := logger.FromContext(ctx)

	present := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			log.Warn().Str("path", path).Msg("Skipping missing per-source file")
			continue
		}
		present = append(present, path)
	}
	if len(present) == 0 {
		return fmt.Errorf("consolidate.Consolidate: no per-source files found")
	}

	rows, err := Union(present)
	if err != nil {
		return err
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("consolidate.Consolidate: creating %s: %w", outPath, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(domain.Columns); err != nil {
		return fmt.Errorf("consolidate.Consolidate: writing header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("consolidate.Consolidate: writing rows: %w", err)
	}

	log.Info().
		Int("sources", len(present)).
		Int("records", len(rows)).
		Str("output", outPath).
		Msg("Consolidated period")

	return nil
}
