package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"pii-deck/models"
	"pii-deck/utils"
)

// InsightService computes and prints frequency tables over cleaned data.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Frequencies counts the non-null values of column. Entries are ordered by
// count descending, then category ascending, so the result is deterministic.
func (s *InsightService) Frequencies(table *models.Table, column string) (*models.FrequencyTable, error) {
	idx := table.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("insights: %w %q", ErrMissingColumn, column)
	}

	counts := make(map[string]int)
	nulls := 0
	for _, cell := range table.Column(idx) {
		if !cell.Valid {
			nulls++
			continue
		}
		counts[cell.Value]++
	}

	ft := &models.FrequencyTable{Column: column, Entries: make([]models.CategoryCount, 0, len(counts))}
	for cat, n := range counts {
		ft.Entries = append(ft.Entries, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(ft.Entries, func(i, j int) bool {
		a, b := ft.Entries[i], ft.Entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	if nulls > 0 {
		s.logger.Debug("[insights] %d null values in %q not counted", nulls, column)
	}
	s.logger.Info("[insights] %d distinct values in %q over %d rows", len(ft.Entries), column, ft.Total())
	return ft, nil
}

// Print writes a terminal summary of ft with one bar per category.
func (s *InsightService) Print(w io.Writer, ft *models.FrequencyTable) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  %s DISTRIBUTION\033[0m\n", ft.Column)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	if len(ft.Entries) == 0 {
		fmt.Fprintf(w, "  No values\n")
	} else {
		max := ft.Entries[0].Count
		for _, e := range ft.Entries {
			bar := strings.Repeat("█", scaled(e.Count, max, 30))
			fmt.Fprintf(w, "  %-20s %s (%d)\n", truncate(e.Category, 18), bar, e.Count)
		}
	}
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total : \033[1m%d\033[0m\n", ft.Total())
	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// scaled maps n in [0, max] onto [1, width] so every present category shows a bar.
func scaled(n, max, width int) int {
	if max <= width {
		return n
	}
	v := n * width / max
	if v < 1 {
		v = 1
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
