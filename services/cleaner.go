package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pii-deck/config"
	"pii-deck/models"
	"pii-deck/redact"
	"pii-deck/utils"
)

// Cleaner turns a raw workbook table into the cleaned table: canonical headers,
// a derived postal code, identifier columns removed and free text redacted.
type Cleaner struct {
	schema   *config.Schema
	redactor redact.Redactor
	logger   *utils.Logger
	postalRe *regexp.Regexp
}

// NewCleaner builds a Cleaner for the given contract and redaction engine.
func NewCleaner(schema *config.Schema, redactor redact.Redactor, logger *utils.Logger) *Cleaner {
	return &Cleaner{
		schema:   schema,
		redactor: redactor,
		logger:   logger,
		postalRe: postalRegexp(schema.CountryTokens),
	}
}

// postalRegexp matches a 5-digit run that is not part of a longer number and is
// followed only by an optional country token before the end of the string.
func postalRegexp(countryTokens []string) *regexp.Regexp {
	country := ""
	if len(countryTokens) > 0 {
		quoted := make([]string, len(countryTokens))
		for i, t := range countryTokens {
			quoted[i] = regexp.QuoteMeta(t)
		}
		country = `(?:` + strings.Join(quoted, "|") + `)?`
	}
	return regexp.MustCompile(`(?i)(?:^|\D)(\d{5})\s*` + country + `\s*$`)
}

// ExtractPostal returns the postal code found at the end of address.
func (c *Cleaner) ExtractPostal(address string) (string, bool) {
	m := c.postalRe.FindStringSubmatch(address)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Clean runs every cleaning step over raw. raw is not modified.
func (c *Cleaner) Clean(raw *models.Table) (*models.Table, *models.CleaningReport, error) {
	table := c.normaliseHeaders(raw)
	report := &models.CleaningReport{Rows: len(table.Rows)}

	addrIdx := table.Index(c.schema.AddressColumn)
	if addrIdx < 0 {
		return nil, nil, fmt.Errorf("cleaner: %w %q (have %s)",
			ErrMissingColumn, c.schema.AddressColumn, strings.Join(table.Header, ", "))
	}

	// Postal codes come from the address, so they must be derived before the drop.
	postal := make([]models.Cell, len(table.Rows))
	for i, row := range table.Rows {
		cell := row[addrIdx]
		if !cell.Valid {
			report.EmptyPostal++
			continue
		}
		if code, ok := c.ExtractPostal(cell.Value); ok {
			postal[i] = models.Text(code)
			report.PostalCodes++
			continue
		}
		report.EmptyPostal++
		c.logger.Debug("[cleaner] No postal code in address on row %d", i+1)
	}

	if table.Has(c.schema.PostalColumn) {
		c.logger.Warn("[cleaner] Source already has a %q column; replacing it with the derived value",
			c.schema.PostalColumn)
		table.DropColumns(c.schema.PostalColumn)
	}

	report.DroppedColumns = table.DropColumns(c.schema.IdentifierColumns...)
	report.MissingColumns = missing(c.schema.IdentifierColumns, report.DroppedColumns)
	for _, name := range report.MissingColumns {
		c.logger.Warn("[cleaner] Identifier column %q not in source; nothing to drop", name)
	}

	for col, name := range table.Header {
		if !isFreeText(table, col) {
			c.logger.Debug("[cleaner] Column %q is numeric; skipping redaction", name)
			continue
		}
		n, err := c.redactColumn(table, col)
		if err != nil {
			return nil, nil, fmt.Errorf("cleaner: redact column %q: %w", name, err)
		}
		report.RedactedColumns = append(report.RedactedColumns, name)
		report.RedactedCells += n
	}

	table.AddColumn(c.schema.PostalColumn, postal)

	c.logger.Info("[cleaner] Cleaned %d rows: dropped %d identifier columns, redacted %d cells, %d postal codes derived",
		report.Rows, len(report.DroppedColumns), report.RedactedCells, report.PostalCodes)
	return table, report, nil
}

func (c *Cleaner) normaliseHeaders(raw *models.Table) *models.Table {
	header := make([]string, len(raw.Header))
	seen := make(map[string]struct{}, len(raw.Header))
	for i, h := range raw.Header {
		header[i] = c.schema.Canonical(h)
		if _, dup := seen[header[i]]; dup {
			c.logger.Warn("[cleaner] Duplicate column %q after normalisation", header[i])
		}
		seen[header[i]] = struct{}{}
	}

	table := models.NewTable(header)
	for _, row := range raw.Rows {
		table.Append(row)
	}
	return table
}

// redactColumn rewrites every non-null cell of col and returns how many changed.
func (c *Cleaner) redactColumn(table *models.Table, col int) (int, error) {
	changed := 0
	for i, row := range table.Rows {
		cell := row[col]
		if !cell.Valid {
			continue
		}
		out, err := c.redactor.Redact(cell.Value)
		if err != nil {
			return changed, fmt.Errorf("row %d: %w", i+1, err)
		}
		if out != cell.Value {
			changed++
		}
		row[col] = models.Text(out)
	}
	return changed, nil
}

// isFreeText reports whether col holds at least one non-null value that is not a number.
func isFreeText(table *models.Table, col int) bool {
	for _, row := range table.Rows {
		cell := row[col]
		if !cell.Valid {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell.Value), 64); err != nil {
			return true
		}
	}
	return false
}

func missing(want, got []string) []string {
	have := make(map[string]struct{}, len(got))
	for _, g := range got {
		have[g] = struct{}{}
	}
	var out []string
	for _, w := range want {
		if _, ok := have[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}
