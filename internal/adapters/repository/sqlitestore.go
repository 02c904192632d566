package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/okian/podium/internal/adapters/seasonfile"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/normalize"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

const schema = `CREATE TABLE IF NOT EXISTS seasons (
	id         TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps one JSON document per season in a SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l logger.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		if l != nil {
			s.log = l
		}
	}
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
// Write transactions take the database lock immediately.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &SQLiteStore{db: db, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.refreshCount(ctx); err != nil {
		s.log.Warn(ctx, "season count unavailable", logger.Error(err))
	}
	return s, nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, seasonID string) (model.Season, error) {
	if err := validID(seasonID); err != nil {
		return model.Season{}, err
	}
	season, err := load(ctx, s.db, seasonID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError("load")
	}
	return season, err
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, seasonID string, season model.Season) error {
	if err := validID(seasonID); err != nil {
		return err
	}
	if err := save(ctx, s.db, seasonID, season); err != nil {
		metrics.RecordStoreError("save")
		return err
	}
	if err := s.refreshCount(ctx); err != nil {
		s.log.Warn(ctx, "season count unavailable", logger.Error(err))
	}
	return nil
}

// ReplaceEventResults implements Store. The read and the write run in one
// transaction so concurrent replacements never interleave.
func (s *SQLiteStore) ReplaceEventResults(ctx context.Context, seasonID, eventID string, entries []model.ResultEntry) (model.Season, error) {
	if err := validID(seasonID); err != nil {
		return model.Season{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordStoreError("replace")
		return model.Season{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	season, err := load(ctx, tx, seasonID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.RecordStoreError("replace")
		}
		return model.Season{}, err
	}
	next := season.ReplaceEventResults(eventID, entries)
	normalize.Sort(next.Results)
	if err := save(ctx, tx, seasonID, next); err != nil {
		metrics.RecordStoreError("replace")
		return model.Season{}, err
	}
	if err := tx.Commit(); err != nil {
		metrics.RecordStoreError("replace")
		return model.Season{}, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, seasonID string) error {
	if err := validID(seasonID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = ?`, seasonID)
	if err != nil {
		metrics.RecordStoreError("delete")
		return fmt.Errorf("delete season: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, seasonID)
	}
	if err := s.refreshCount(ctx); err != nil {
		s.log.Warn(ctx, "season count unavailable", logger.Error(err))
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM seasons ORDER BY id`)
	if err != nil {
		metrics.RecordStoreError("list")
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			metrics.RecordStoreError("list")
			return nil, fmt.Errorf("scan season id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) refreshCount(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seasons`).Scan(&n); err != nil {
		return err
	}
	metrics.UpdateSeasonsTotal(n)
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func load(ctx context.Context, q querier, seasonID string) (model.Season, error) {
	var doc string
	err := q.QueryRowContext(ctx, `SELECT document FROM seasons WHERE id = ?`, seasonID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Season{}, fmt.Errorf("%w: %s", ErrNotFound, seasonID)
	}
	if err != nil {
		return model.Season{}, fmt.Errorf("load season: %w", err)
	}
	season, _, err := seasonfile.Decode(bytes.NewBufferString(doc))
	if err != nil {
		return model.Season{}, fmt.Errorf("load season %s: %w", seasonID, err)
	}
	return season, nil
}

func save(ctx context.Context, q querier, seasonID string, season model.Season) error {
	var buf bytes.Buffer
	if err := seasonfile.Encode(&buf, season); err != nil {
		return fmt.Errorf("encode season: %w", err)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO seasons (id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		seasonID, buf.String(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save season: %w", err)
	}
	return nil
}
