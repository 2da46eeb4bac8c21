package models

// CleaningReport holds the counters collected during one cleaning run.
type CleaningReport struct {
	Rows            int
	DroppedColumns  []string
	MissingColumns  []string
	RedactedColumns []string
	RedactedCells   int
	PostalCodes     int
	EmptyPostal     int
}

// CategoryCount is one entry of a FrequencyTable.
type CategoryCount struct {
	Category string
	Count    int
}

// FrequencyTable holds occurrence counts of a categorical column,
// ordered by count descending and then category ascending.
type FrequencyTable struct {
	Column  string
	Entries []CategoryCount
}

// Total returns the sum of all counts.
func (f *FrequencyTable) Total() int {
	n := 0
	for _, e := range f.Entries {
		n += e.Count
	}
	return n
}

// Get returns the count for category, or 0 if it never occurred.
func (f *FrequencyTable) Get(category string) int {
	for _, e := range f.Entries {
		if e.Category == category {
			return e.Count
		}
	}
	return 0
}
