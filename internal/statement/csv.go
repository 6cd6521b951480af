// Package statement reads raw institution exports and reads/writes files in
// the canonical schema. It is deliberately thin: all data-integrity logic
// lives in the pipeline, this package only moves rows.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/domain"
)

// ReadRaw reads a source export: it skips the leading non-data rows, takes
// the next row as the header, and returns the remaining rows keyed by header
// name. Institution exports open with several rows of letterhead before the
// header, and the letterhead is frequently ragged, so field counts are not
// enforced.
func ReadRaw(path string, headerSkip int) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("statement.ReadRaw: opening %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	for i := 0; i < headerSkip; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("statement.ReadRaw: skipping row %d of %s: %w", i+1, path, err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("statement.ReadRaw: reading header of %s: %w", path, err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("statement.ReadRaw: reading record from %s: %w", path, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteCanonical writes records as a canonical CSV: the fixed 34-column
// header followed by one row per record, in record order.
func WriteCanonical(path string, records []domain.CanonicalRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("statement.WriteCanonical: creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(domain.Columns); err != nil {
		return fmt.Errorf("statement.WriteCanonical: writing header: %w", err)
	}
	for i := range records {
		if err := w.Write(records[i].Row()); err != nil {
			return fmt.Errorf("statement.WriteCanonical: writing record %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("statement.WriteCanonical: flushing %s: %w", path, err)
	}
	return nil
}

// ReadCanonical reads a canonical CSV back as a header plus string rows. A
// leading positional-index artifact column (an unnamed or "INDEX"/"Unnamed:
// 0" first column, as spreadsheet round-trips produce) is dropped from the
// header and every row before returning.
func ReadCanonical(path string) (header []string, rows [][]string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("statement.ReadCanonical: opening %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("statement.ReadCanonical: reading %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("statement.ReadCanonical: %s is empty", path)
	}

	header = all[0]
	rows = all[1:]

	if len(header) > 0 && isIndexArtifact(header[0]) {
		header = header[1:]
		for i := range rows {
			if len(rows[i]) > 0 {
				rows[i] = rows[i][1:]
			}
		}
	}

	return header, rows, nil
}

func isIndexArtifact(name string) bool {
	switch name {
	case "", "INDEX", "Unnamed: 0":
		return true
	}
	return false
}
