package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"pii-deck/models"
	"pii-deck/utils"
)

const insertBatchSize = 50

// PostgresWriter stores cleaned tables as JSONB rows keyed by a per-run uuid.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection, waits for the server with retry, runs
// the schema migration and returns a ready-to-use writer.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cleaned_records (
			id         BIGSERIAL   PRIMARY KEY,
			run_id     UUID        NOT NULL,
			row_index  INTEGER     NOT NULL,
			record     JSONB       NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, row_index)
		);

		CREATE INDEX IF NOT EXISTS idx_cleaned_records_run ON cleaned_records(run_id);
	`)
	return err
}

// Store inserts every row of table under a fresh run id and returns that id.
// All batches share one transaction.
func (pw *PostgresWriter) Store(ctx context.Context, table *models.Table) (string, error) {
	runID := uuid.New()

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, b := range batchBounds(len(table.Rows), insertBatchSize) {
		if err := insertBatch(ctx, tx, runID, table.Header, b[0], table.Rows[b[0]:b[1]]); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("postgres: commit: %w", err)
	}
	return runID.String(), nil
}

// batchBounds splits n rows into half-open [start, end) ranges of at most size rows.
func batchBounds(n, size int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// insertQuery builds a multi-row INSERT with three numbered placeholders per row.
func insertQuery(rows int) string {
	valueStrings := make([]string, rows)
	for idx := range valueStrings {
		base := idx * 3
		valueStrings[idx] = fmt.Sprintf("($%d,$%d,$%d)", base+1, base+2, base+3)
	}
	return fmt.Sprintf(`
		INSERT INTO cleaned_records (run_id, row_index, record)
		VALUES %s
	`, strings.Join(valueStrings, ","))
}

func insertBatch(ctx context.Context, tx *sql.Tx, runID uuid.UUID, header []string, offset int, batch [][]models.Cell) error {
	valueArgs := make([]interface{}, 0, len(batch)*3)

	for idx, row := range batch {
		doc, err := RecordJSON(header, row)
		if err != nil {
			return fmt.Errorf("postgres: encode row %d: %w", offset+idx, err)
		}
		valueArgs = append(valueArgs, runID.String(), offset+idx, string(doc))
	}

	if _, err := tx.ExecContext(ctx, insertQuery(len(batch)), valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch at row %d: %w", offset, err)
	}
	return nil
}

// RecordJSON encodes one row as a JSON object keyed by column name; nulls become JSON null.
func RecordJSON(header []string, row []models.Cell) ([]byte, error) {
	doc := make(map[string]*string, len(header))
	for i, name := range header {
		if i >= len(row) || !row[i].Valid {
			doc[name] = nil
			continue
		}
		v := row[i].Value
		doc[name] = &v
	}
	return json.Marshal(doc)
}

// FetchRun reads back the rows stored under runID in row order.
func (pw *PostgresWriter) FetchRun(ctx context.Context, runID string, header []string) (*models.Table, error) {
	rows, err := pw.db.QueryContext(ctx, `
		SELECT record
		FROM cleaned_records
		WHERE run_id = $1
		ORDER BY row_index
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch run: %w", err)
	}
	defer rows.Close()

	table := models.NewTable(header)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		var doc map[string]*string
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("postgres: decode row: %w", err)
		}
		cells := make([]models.Cell, len(header))
		for i, name := range header {
			if v := doc[name]; v != nil {
				cells[i] = models.Text(*v)
			}
		}
		table.Append(cells)
	}
	return table, rows.Err()
}

// Prune deletes runs older than the given age and returns how many rows were removed.
func (pw *PostgresWriter) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := pw.db.ExecContext(ctx,
		"DELETE FROM cleaned_records WHERE created_at < NOW() - make_interval(secs => $1)",
		olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("postgres: prune: %w", err)
	}
	return res.RowsAffected()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
