package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var defaultSchema []byte

// Schema is the column contract the cleaner and chart renderer rely on.
type Schema struct {
	HeaderRow         int               `yaml:"header_row"`
	Aliases           map[string]string `yaml:"aliases"`
	AddressColumn     string            `yaml:"address_column"`
	PostalColumn      string            `yaml:"postal_column"`
	CountryTokens     []string          `yaml:"country_tokens"`
	IdentifierColumns []string          `yaml:"identifier_columns"`
	CategoryColumn    string            `yaml:"category_column"`
}

// DefaultSchema returns the embedded contract.
func DefaultSchema() (*Schema, error) {
	return ParseSchema(defaultSchema)
}

// LoadSchema reads a YAML contract from path, or the embedded default when path is empty.
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return DefaultSchema()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %q: %w", path, err)
	}
	s, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("schema: %q: %w", path, err)
	}
	return s, nil
}

// ParseSchema decodes and validates a YAML contract. Column names are normalised
// the same way source headers are, so the file may use any casing.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	s.normalise()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// NormaliseHeader trims and uppercases a header cell.
func NormaliseHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}

// Canonical returns the canonical column name for a raw header cell.
func (s *Schema) Canonical(raw string) string {
	h := NormaliseHeader(raw)
	if alias, ok := s.Aliases[h]; ok {
		return alias
	}
	return h
}

func (s *Schema) normalise() {
	aliases := make(map[string]string, len(s.Aliases))
	for from, to := range s.Aliases {
		aliases[NormaliseHeader(from)] = NormaliseHeader(to)
	}
	s.Aliases = aliases
	s.AddressColumn = NormaliseHeader(s.AddressColumn)
	s.PostalColumn = NormaliseHeader(s.PostalColumn)
	s.CategoryColumn = NormaliseHeader(s.CategoryColumn)
	for i, c := range s.IdentifierColumns {
		s.IdentifierColumns[i] = NormaliseHeader(c)
	}
	for i, t := range s.CountryTokens {
		s.CountryTokens[i] = strings.TrimSpace(t)
	}
}

// Validate checks that every required field of the contract is set.
func (s *Schema) Validate() error {
	var errs []error
	if s.HeaderRow < 0 {
		errs = append(errs, fmt.Errorf("header_row must be >= 0, got %d", s.HeaderRow))
	}
	if s.AddressColumn == "" {
		errs = append(errs, errors.New("address_column is required"))
	}
	if s.PostalColumn == "" {
		errs = append(errs, errors.New("postal_column is required"))
	}
	if s.CategoryColumn == "" {
		errs = append(errs, errors.New("category_column is required"))
	}
	for _, c := range s.IdentifierColumns {
		if c == s.PostalColumn {
			errs = append(errs, fmt.Errorf("postal_column %q is also listed in identifier_columns", c))
		}
	}
	for _, t := range s.CountryTokens {
		if t == "" {
			errs = append(errs, errors.New("country_tokens must not contain empty entries"))
			break
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid schema: %w", errors.Join(errs...))
	}
	return nil
}
