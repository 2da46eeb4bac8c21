package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSchema(t *testing.T) {
	s, err := DefaultSchema()
	if err != nil {
		t.Fatalf("default schema: %v", err)
	}
	if s.AddressColumn != "ADDRESS" {
		t.Errorf("AddressColumn: got %q, want ADDRESS", s.AddressColumn)
	}
	if s.PostalColumn != "ZIP" {
		t.Errorf("PostalColumn: got %q, want ZIP", s.PostalColumn)
	}
	if s.CategoryColumn != "CARD TYPE" {
		t.Errorf("CategoryColumn: got %q, want CARD TYPE", s.CategoryColumn)
	}
	want := []string{"NAME", "SSN", "ADDRESS", "DOB", "PHONE", "CARD NUMBER"}
	if strings.Join(s.IdentifierColumns, ",") != strings.Join(want, ",") {
		t.Errorf("IdentifierColumns: got %v, want %v", s.IdentifierColumns, want)
	}
}

func TestSchemaCanonical(t *testing.T) {
	s, err := DefaultSchema()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		raw  string
		want string
	}{
		{"  First and Last Name ", "NAME"},
		{"ssn", "SSN"},
		{"Credit Card Number", "CARD NUMBER"},
		{"card type", "CARD TYPE"},
		{"Address", "ADDRESS"},
	}
	for _, tt := range tests {
		if got := s.Canonical(tt.raw); got != tt.want {
			t.Errorf("Canonical(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseSchemaNormalisesNames(t *testing.T) {
	s, err := ParseSchema([]byte(`
header_row: 2
address_column: " street address "
postal_column: zip code
category_column: network
identifier_columns: [ssn, Street Address]
aliases:
  "e-mail": email
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.HeaderRow != 2 {
		t.Errorf("HeaderRow: got %d, want 2", s.HeaderRow)
	}
	if s.AddressColumn != "STREET ADDRESS" || s.PostalColumn != "ZIP CODE" || s.CategoryColumn != "NETWORK" {
		t.Errorf("columns not normalised: %+v", s)
	}
	if s.IdentifierColumns[1] != "STREET ADDRESS" {
		t.Errorf("identifier not normalised: %q", s.IdentifierColumns[1])
	}
	if s.Aliases["E-MAIL"] != "EMAIL" {
		t.Errorf("alias not normalised: %v", s.Aliases)
	}
}

func TestParseSchemaValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing address", "postal_column: ZIP\ncategory_column: X\n", "address_column is required"},
		{"negative header", "header_row: -1\naddress_column: A\npostal_column: Z\ncategory_column: X\n", "header_row"},
		{"postal dropped", "address_column: A\npostal_column: Z\ncategory_column: X\nidentifier_columns: [z]\n", "also listed"},
		{"bad yaml", "address_column: [unterminated", "parse schema"},
	}
	for _, tt := range tests {
		_, err := ParseSchema([]byte(tt.yaml))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.want)
		}
	}
}

func TestLoadSchemaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	body := "address_column: addr\npostal_column: zip\ncategory_column: kind\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.AddressColumn != "ADDR" {
		t.Errorf("AddressColumn: got %q, want ADDR", s.AddressColumn)
	}

	if _, err := LoadSchema(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing schema file")
	}
}
