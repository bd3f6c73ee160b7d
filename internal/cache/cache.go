// Package cache provides SQLite-backed storage for fetched worksheets.
//
// The cache keeps the raw CSV export of every worksheet along with its
// source URL, fetch time, and the UUID of the fetch invocation that
// produced it. Builds read from the cache when the network is
// unavailable, and repeated fetches upsert in place.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (worksheets table + run index)
const currentSchemaVersion = 1

// Worksheet is one cached worksheet row.
type Worksheet struct {
	Workbook  string
	Sheet     string
	SourceURL string
	FetchedAt time.Time
	RunID     string
	CSV       []byte
}

// Cache wraps the SQLite worksheet store.
// SQLite supports a single writer; the connection pool is capped at one.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
//
// The database is configured with WAL mode, NORMAL synchronous mode, a
// 5-second busy timeout, and foreign key enforcement; the schema is
// applied idempotently and the schema version verified.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// PutWorksheet upserts one worksheet row. Re-fetching a worksheet
// replaces its CSV, fetch time, and run ID in place.
func (c *Cache) PutWorksheet(ctx context.Context, ws Worksheet) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO worksheets (workbook, sheet, source_url, fetched_at, run_id, csv)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(workbook, sheet) DO UPDATE SET
			source_url = excluded.source_url,
			fetched_at = excluded.fetched_at,
			run_id     = excluded.run_id,
			csv        = excluded.csv
	`,
		ws.Workbook,
		ws.Sheet,
		ws.SourceURL,
		ws.FetchedAt.UTC().Format(time.RFC3339),
		ws.RunID,
		ws.CSV,
	)
	if err != nil {
		return fmt.Errorf("put worksheet %s/%s: %w", ws.Workbook, ws.Sheet, err)
	}
	return nil
}

// GetWorksheet returns one cached worksheet, or sql.ErrNoRows wrapped
// when the pair has never been fetched.
func (c *Cache) GetWorksheet(ctx context.Context, workbook, sheet string) (Worksheet, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT workbook, sheet, source_url, fetched_at, run_id, csv
		FROM worksheets
		WHERE workbook = ? AND sheet = ?
	`, workbook, sheet)

	ws, err := scanWorksheet(row)
	if err != nil {
		return Worksheet{}, fmt.Errorf("get worksheet %s/%s: %w", workbook, sheet, err)
	}
	return ws, nil
}

// List returns every cached worksheet ordered by workbook then sheet,
// so callers iterate deterministically.
func (c *Cache) List(ctx context.Context) ([]Worksheet, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT workbook, sheet, source_url, fetched_at, run_id, csv
		FROM worksheets
		ORDER BY workbook ASC, sheet ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
	}
	defer rows.Close()

	var out []Worksheet
	for rows.Next() {
		ws, err := scanWorksheet(rows)
		if err != nil {
			return nil, fmt.Errorf("list worksheets: %w", err)
		}
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorksheet(s scanner) (Worksheet, error) {
	var ws Worksheet
	var fetchedAt string
	if err := s.Scan(&ws.Workbook, &ws.Sheet, &ws.SourceURL, &fetchedAt, &ws.RunID, &ws.CSV); err != nil {
		return Worksheet{}, err
	}
	t, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return Worksheet{}, fmt.Errorf("parsing fetched_at %q: %w", fetchedAt, err)
	}
	ws.FetchedAt = t
	return ws, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and stamps the schema
// version. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("cache schema version %d is newer than supported %d", version, currentSchemaVersion)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}
	return nil
}
