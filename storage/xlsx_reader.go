package storage

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"pii-deck/models"
	"pii-deck/utils"
)

// XLSXReader reads one worksheet of a workbook into a Table: Sheet when set,
// the first sheet otherwise. Rows above HeaderRow are skipped; the row at
// HeaderRow is the header.
type XLSXReader struct {
	HeaderRow int
	Sheet     string
	Logger    *utils.Logger
}

// Read opens path and returns its raw header and rows. Header names are returned
// as they appear in the sheet; normalisation is up to the caller.
func (r *XLSXReader) Read(path string) (*models.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", path, err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("xlsx: %q has no worksheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	if r.HeaderRow >= len(rows) {
		return nil, fmt.Errorf("xlsx: header row %d not found in sheet %q (%d rows)",
			r.HeaderRow, sheet, len(rows))
	}

	logger := r.Logger
	if logger == nil {
		logger = utils.Discard()
	}

	table := models.NewTable(rows[r.HeaderRow])
	for i, raw := range rows[r.HeaderRow+1:] {
		if isBlankRow(raw) {
			continue
		}
		if len(raw) > len(table.Header) && !isBlankRow(raw[len(table.Header):]) {
			logger.Warn("[xlsx] Row %d of sheet %q has %d cells but the header has %d; extra cells dropped",
				r.HeaderRow+i+2, sheet, len(raw), len(table.Header))
		}
		cells := make([]models.Cell, len(raw))
		for i, v := range raw {
			cells[i] = models.CellFromField(v)
		}
		table.Append(cells)
	}
	return table, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
