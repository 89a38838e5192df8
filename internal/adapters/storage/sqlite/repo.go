// Package sqlite persists report sessions so a review can be resumed
// without refetching the board.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/tidrapport/internal/app"
	"github.com/hylla/tidrapport/internal/domain"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Repository stores sessions in a local sqlite database.
type Repository struct {
	db *sql.DB
}

// Open opens or creates the database at path and runs migrations.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a shared in-memory database, mainly for tests.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			fetched_at TEXT NOT NULL,
			records_json TEXT NOT NULL DEFAULT '[]',
			summary_json TEXT NOT NULL DEFAULT '{}',
			saved_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_fetched_at ON sessions(fetched_at);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SaveSession upserts the session. The same id written twice keeps only the
// latest payload, so edits overwrite the session they belong to.
func (r *Repository) SaveSession(ctx context.Context, session app.Session) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is required")
	}
	records, err := json.Marshal(session.Records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	summary, err := json.Marshal(session.Summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, fetched_at, records_json, summary_json, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			records_json = excluded.records_json,
			summary_json = excluded.summary_json,
			saved_at = excluded.saved_at`,
		session.ID,
		session.FetchedAt.UTC().Format(time.RFC3339Nano),
		string(records),
		string(summary),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadLatestSession returns the most recently fetched session, or
// app.ErrNotFound when the database holds none.
func (r *Repository) LoadLatestSession(ctx context.Context) (app.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, fetched_at, records_json, summary_json
		FROM sessions
		ORDER BY fetched_at DESC, saved_at DESC
		LIMIT 1`)

	var (
		id          string
		fetchedAt   string
		recordsJSON string
		summaryJSON string
	)
	if err := row.Scan(&id, &fetchedAt, &recordsJSON, &summaryJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return app.Session{}, app.ErrNotFound
		}
		return app.Session{}, fmt.Errorf("load session: %w", err)
	}

	fetched, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return app.Session{}, fmt.Errorf("parse fetched_at: %w", err)
	}
	var records []domain.ActivityRecord
	if err := json.Unmarshal([]byte(recordsJSON), &records); err != nil {
		return app.Session{}, fmt.Errorf("decode records: %w", err)
	}
	var summary *domain.SummarySet
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return app.Session{}, fmt.Errorf("decode summary: %w", err)
	}

	return app.Session{
		ID:        id,
		FetchedAt: fetched,
		Records:   records,
		Summary:   summary,
	}, nil
}
