// Package history persists finished import-run summaries in Postgres. Only
// run-level tallies are stored; the imported link records themselves live
// behind the record-creation API.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zaeemsc/openshortlink-sub000/internal/importer"
)

// ErrNotFound is returned when a run id has no stored record.
var ErrNotFound = errors.New("import run not found")

// Store reads and writes the import_runs table.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the import_runs table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS import_runs (
			id            UUID PRIMARY KEY,
			file_name     TEXT NOT NULL,
			collection_id TEXT NOT NULL,
			total_rows    INTEGER NOT NULL,
			success_count INTEGER NOT NULL,
			error_count   INTEGER NOT NULL,
			cancelled     BOOLEAN NOT NULL DEFAULT FALSE,
			started_at    TIMESTAMPTZ NOT NULL,
			duration_ms   BIGINT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create import_runs table: %w", err)
	}
	return nil
}

// RecordRun stores one finished run. Implements importer.RunRecorder.
func (s *Store) RecordRun(ctx context.Context, rec importer.RunRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO import_runs
			(id, file_name, collection_id, total_rows, success_count,
			 error_count, cancelled, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.FileName, rec.CollectionID, rec.TotalRows,
		rec.SuccessCount, rec.ErrorCount, rec.Cancelled, rec.StartedAt,
		rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}
	return nil
}

// Run is a stored import-run summary.
type Run struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	CollectionID string    `json:"collectionId"`
	TotalRows    int       `json:"totalRows"`
	SuccessCount int       `json:"successCount"`
	ErrorCount   int       `json:"errorCount"`
	Cancelled    bool      `json:"cancelled"`
	StartedAt    time.Time `json:"startedAt"`
	DurationMs   int64     `json:"durationMs"`
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, file_name, collection_id, total_rows, success_count,
		       error_count, cancelled, started_at, duration_ms
		FROM import_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.FileName, &r.CollectionID, &r.TotalRows,
			&r.SuccessCount, &r.ErrorCount, &r.Cancelled, &r.StartedAt,
			&r.DurationMs); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one stored run by id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := s.pool.QueryRow(ctx, `
		SELECT id, file_name, collection_id, total_rows, success_count,
		       error_count, cancelled, started_at, duration_ms
		FROM import_runs
		WHERE id = $1`, id).
		Scan(&r.ID, &r.FileName, &r.CollectionID, &r.TotalRows,
			&r.SuccessCount, &r.ErrorCount, &r.Cancelled, &r.StartedAt,
			&r.DurationMs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import run: %w", err)
	}
	return &r, nil
}
