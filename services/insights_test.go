package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"pii-deck/models"
)

func cardTable(values ...string) *models.Table {
	t := models.NewTable([]string{"CARD TYPE", "ZIP"})
	for _, v := range values {
		t.Append([]models.Cell{models.CellFromField(v), models.Text("62704")})
	}
	return t
}

func TestInsightFrequencies(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	ft, err := svc.Frequencies(cardTable("VISA", "VISA", "MASTERCARD", "DISCOVER"), "CARD TYPE")
	if err != nil {
		t.Fatalf("Frequencies: %v", err)
	}

	want := []models.CategoryCount{
		{Category: "VISA", Count: 2},
		{Category: "DISCOVER", Count: 1},
		{Category: "MASTERCARD", Count: 1},
	}
	if len(ft.Entries) != len(want) {
		t.Fatalf("entries: got %+v, want %+v", ft.Entries, want)
	}
	for i := range want {
		if ft.Entries[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, ft.Entries[i], want[i])
		}
	}
}

func TestInsightTotalMatchesNonNullRows(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	table := cardTable("VISA", "", "AMEX", "", "JCB")
	ft, err := svc.Frequencies(table, "CARD TYPE")
	if err != nil {
		t.Fatal(err)
	}
	if ft.Total() != 3 {
		t.Errorf("Total: got %d, want 3", ft.Total())
	}
	if ft.Get("JCB") != 1 {
		t.Error("categories outside the palette must still be counted")
	}
}

func TestInsightMissingColumn(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	_, err := svc.Frequencies(cardTable("VISA"), "NETWORK")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	ft, err := svc.Frequencies(cardTable(), "CARD TYPE")
	if err != nil {
		t.Fatal(err)
	}
	if len(ft.Entries) != 0 || ft.Total() != 0 {
		t.Errorf("expected empty table, got %+v", ft)
	}
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	ft, _ := svc.Frequencies(cardTable("VISA", "VISA", "AMEX"), "CARD TYPE")

	var buf bytes.Buffer
	svc.Print(&buf, ft)
	out := buf.String()
	if !strings.Contains(out, "CARD TYPE DISTRIBUTION") {
		t.Error("missing heading")
	}
	if !strings.Contains(out, "VISA") || !strings.Contains(out, "██ (2)") {
		t.Errorf("missing VISA bar:\n%s", out)
	}
}
