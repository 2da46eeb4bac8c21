package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"pii-deck/models"
)

// CSVReader loads a cleaned table written by CSVWriter. Empty fields become null cells.
type CSVReader struct{}

func (CSVReader) Read(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: %q is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	table := models.NewTable(header)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", len(table.Rows)+1, err)
		}
		cells := make([]models.Cell, len(rec))
		for i, v := range rec {
			cells[i] = models.CellFromField(v)
		}
		table.Append(cells)
	}
	return table, nil
}
