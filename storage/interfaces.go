package storage

import (
	"context"

	"pii-deck/models"
)

// TableReader loads a whole sheet into memory.
type TableReader interface {
	Read(path string) (*models.Table, error)
}

// TableWriter persists a cleaned table.
type TableWriter interface {
	Write(table *models.Table) error
	Close() error
}

// TableSink is an additional destination for cleaned tables, such as a database.
type TableSink interface {
	Store(ctx context.Context, table *models.Table) (string, error)
	Close() error
}

// DeckWriter serialises a slide deck to a file.
type DeckWriter interface {
	WriteDeck(deck *models.Deck, path string) error
}
