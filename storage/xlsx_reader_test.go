package storage

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"pii-deck/utils"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "source.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestXLSXReaderReadsFirstSheet(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{" First and Last Name ", "ADDRESS", "CARD TYPE"},
		{"Ann Lee", "1 Elm St, Springfield, IL 62704 USA", "VISA"},
		{"Bob Ray", nil, "AMEX"},
		{},
	})

	table, err := (&XLSXReader{}).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if table.Header[0] != " First and Last Name " {
		t.Errorf("header should be returned raw, got %q", table.Header[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows: got %d, want 2 (blank rows skipped)", len(table.Rows))
	}
	if table.Rows[1][1].Valid {
		t.Error("empty cell should be null")
	}
	if table.Rows[1][2].Value != "AMEX" {
		t.Errorf("row 1 card type: got %q", table.Rows[1][2].Value)
	}
}

func TestXLSXReaderHeaderRow(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Exported 2025-05-03"},
		{"SSN", "CARD TYPE"},
		{"123-45-6789", "DISCOVER"},
	})

	table, err := (&XLSXReader{HeaderRow: 1}).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if table.Header[1] != "CARD TYPE" {
		t.Errorf("header: got %v", table.Header)
	}
	if len(table.Rows) != 1 || table.Rows[0][1].Value != "DISCOVER" {
		t.Errorf("rows: got %+v", table.Rows)
	}

	if _, err := (&XLSXReader{HeaderRow: 9}).Read(path); err == nil {
		t.Error("expected error when header row is past the end of the sheet")
	}
}

func TestXLSXReaderMissingFile(t *testing.T) {
	if _, err := (&XLSXReader{}).Read(filepath.Join(t.TempDir(), "none.xlsx")); err == nil {
		t.Fatal("expected error for missing workbook")
	}
}

func TestXLSXReaderWarnsOnCellsPastHeader(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"CARD TYPE", "ZIP"},
		{"VISA", "62704", "orphan"},
		{"AMEX", "73301"},
	})

	var buf bytes.Buffer
	reader := &XLSXReader{Logger: utils.NewLoggerTo(&buf, &buf, utils.LevelWarn)}
	table, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(table.Rows[0]) != 2 {
		t.Errorf("row should be truncated to the header width, got %d cells", len(table.Rows[0]))
	}
	out := buf.String()
	if !strings.Contains(out, "Row 2") || !strings.Contains(out, "extra cells dropped") {
		t.Errorf("expected a warning for row 2, got %q", out)
	}
	if strings.Count(out, "extra cells dropped") != 1 {
		t.Errorf("only one row is too wide, got %q", out)
	}
}

func TestXLSXReaderNamedSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("Export"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Export", "A1", &[]interface{}{"CARD TYPE"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Export", "A2", &[]interface{}{"DISCOVER"}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sheets.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	table, err := (&XLSXReader{Sheet: "Export"}).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0][0].Value != "DISCOVER" {
		t.Errorf("rows: got %+v", table.Rows)
	}

	if _, err := (&XLSXReader{Sheet: "Missing"}).Read(path); err == nil {
		t.Error("expected error for a sheet that does not exist")
	}
}
