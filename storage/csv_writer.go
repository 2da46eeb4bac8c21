package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"pii-deck/models"
)

// CSVWriter writes a cleaned table to path. The file is staged next to the
// target and renamed into place, so a failed run never leaves a partial file.
type CSVWriter struct {
	path string
	tmp  *os.File
}

// NewCSVWriter creates the staging file for path. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return &CSVWriter{path: path, tmp: tmp}, nil
}

// Write writes the header and every row, then moves the file to its final path.
// Null cells are written as empty fields.
func (c *CSVWriter) Write(table *models.Table) error {
	if c.tmp == nil {
		return fmt.Errorf("csv: writer for %q already closed", c.path)
	}

	w := csv.NewWriter(c.tmp)
	if err := w.Write(table.Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	record := make([]string, len(table.Header))
	for _, row := range table.Rows {
		for i, cell := range row {
			record[i] = cell.Field()
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}

	name := c.tmp.Name()
	if err := c.tmp.Close(); err != nil {
		return fmt.Errorf("csv: close %q: %w", name, err)
	}
	c.tmp = nil
	if err := os.Rename(name, c.path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("csv: move into place %q: %w", c.path, err)
	}
	return nil
}

// Close discards the staging file if Write never completed.
func (c *CSVWriter) Close() error {
	if c.tmp == nil {
		return nil
	}
	name := c.tmp.Name()
	err := c.tmp.Close()
	c.tmp = nil
	_ = os.Remove(name)
	return err
}
