package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"pii-deck/config"
	"pii-deck/redact"
	"pii-deck/utils"
)

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"First and Last Name", "SSN", "Address", "Card Type", "Credit Card Number", "Notes", "Balance"},
		{"Ann Lee", "123-45-6789", "123 Main St, Springfield, IL 62704 USA", "VISA", "4111 1111 1111 1111", "mail ann@example.com", 10.5},
		{"Bob Ray", "987-65-4321", "123 Main St", "MASTERCARD", "5500 0000 0000 0004", "no notes", 3},
		{"Cy Doe", "111-22-3333", "9 Oak Ave, Austin, TX 73301", "JCB", "3530 1113 3330 0000", nil, 7},
	}
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

	path := filepath.Join(dir, "data", "source.xlsx")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func testApp(t *testing.T, dir, source string) *app {
	t.Helper()
	schema, err := config.DefaultSchema()
	if err != nil {
		t.Fatal(err)
	}
	return &app{
		cfg: &config.Config{
			SourceXLSXPath: source,
			CleanedCSVPath: filepath.Join(dir, "output", "cleaned_data.csv"),
			ChartPNGPath:   filepath.Join(dir, "output", "card_type_chart.png"),
			DeckPPTXPath:   filepath.Join(dir, "slides", "deck.pptx"),
			ChartDPI:       50,
			PreviewRows:    5,
			DeckAuthor:     "Data Team",
			DeckDate:       "2025-05-03",
		},
		schema:   schema,
		logger:   utils.Discard(),
		redactor: redact.NewScrubber(),
		out:      io.Discard,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestRunPipeline(t *testing.T) {
	dir := t.TempDir()
	a := testApp(t, dir, writeSource(t, dir))

	if err := a.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	records := readCSV(t, a.cfg.CleanedCSVPath)
	if got := strings.Join(records[0], ","); got != "CARD TYPE,NOTES,BALANCE,ZIP" {
		t.Fatalf("header: got %s", got)
	}
	if len(records) != 4 {
		t.Fatalf("rows: got %d, want 3", len(records)-1)
	}

	wantZIP := []string{"62704", "", "73301"}
	for i, want := range wantZIP {
		if got := records[i+1][3]; got != want {
			t.Errorf("row %d ZIP: got %q, want %q", i+1, got, want)
		}
	}
	if got := records[1][1]; got != "mail {{EMAIL}}" {
		t.Errorf("notes not redacted: %q", got)
	}
	if got := records[3][1]; got != "" {
		t.Errorf("null notes should stay empty, got %q", got)
	}
	if got := records[1][2]; got != "10.5" {
		t.Errorf("numeric column changed: %q", got)
	}

	if _, err := os.Stat(a.cfg.ChartPNGPath); err != nil {
		t.Errorf("chart: %v", err)
	}

	zr, err := zip.OpenReader(a.cfg.DeckPPTXPath)
	if err != nil {
		t.Fatalf("open deck: %v", err)
	}
	defer zr.Close()
	slides := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides++
		}
	}
	if slides != 7 {
		t.Errorf("deck slides: got %d, want 7", slides)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	a := testApp(t, dir, writeSource(t, dir))

	if err := a.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	firstCSV, _ := os.ReadFile(a.cfg.CleanedCSVPath)
	firstDeck, _ := os.ReadFile(a.cfg.DeckPPTXPath)

	if err := a.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	secondCSV, _ := os.ReadFile(a.cfg.CleanedCSVPath)
	secondDeck, _ := os.ReadFile(a.cfg.DeckPPTXPath)

	if !bytes.Equal(firstCSV, secondCSV) {
		t.Error("cleaned CSV differs between runs")
	}
	if !bytes.Equal(firstDeck, secondDeck) {
		t.Error("deck differs between runs")
	}
}

func TestStagesFailOnMissingInput(t *testing.T) {
	dir := t.TempDir()
	a := testApp(t, dir, filepath.Join(dir, "missing.xlsx"))

	if err := a.clean(context.Background()); err == nil {
		t.Error("clean: expected error for missing workbook")
	}
	if _, err := os.Stat(a.cfg.CleanedCSVPath); !os.IsNotExist(err) {
		t.Errorf("clean left output behind: %v", err)
	}
	if err := a.chart(); err == nil {
		t.Error("chart: expected error for missing CSV")
	}
	if err := a.deck(context.Background()); err == nil {
		t.Error("deck: expected error for missing CSV")
	}
}
