// Package store persists history buffer snapshots in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ring-ca/internal/render"
	"ring-ca/internal/sims/elementary"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a snapshot id does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Store provides durable storage for engine snapshots.
type Store struct {
	db *sql.DB
}

// Snapshot is a persisted copy of an engine's history buffer. Rows are in
// slot order and only cover written slots.
type Snapshot struct {
	ID            string
	Rule          int
	Width         int
	Capacity      int
	CurrentSlot   int
	TotalProduced int
	CreatedAt     time.Time
	Rows          []elementary.Generation
}

// Open creates or opens the database at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite has a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		schemaSQL,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initialize database: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes the engine's written slots and indices under a new id.
func (s *Store) Save(ctx context.Context, eng *elementary.Engine) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, rule, width, capacity, current_slot, total_produced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), eng.Rule().Code(), eng.Width(), eng.Capacity(),
		eng.CurrentSlot(), eng.TotalProduced(), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	for slot := 0; slot < eng.Capacity(); slot++ {
		g, err := eng.GenerationAt(slot)
		if elementary.IsOutOfRange(err) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("save snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO generations (snapshot_id, slot, cells) VALUES (?, ?, ?)`,
			id.String(), slot, render.FormatGeneration(g),
		); err != nil {
			return "", fmt.Errorf("save snapshot slot %d: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return id.String(), nil
}

// Load reads a snapshot and its rows.
func (s *Store) Load(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, rule, width, capacity, current_slot, total_produced, created_at
		FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM generations WHERE snapshot_id = ? ORDER BY slot`, id)
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("load %s rows: %w", id, err)
		}
		g, err := render.ParseGeneration(cells)
		if err != nil {
			return nil, fmt.Errorf("load %s rows: %w", id, err)
		}
		snap.Rows = append(snap.Rows, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s rows: %w", id, err)
	}
	return snap, nil
}

// List returns snapshot headers, newest first. Rows are not populated.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule, width, capacity, current_slot, total_produced, created_at
		FROM snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (*Snapshot, error) {
	var snap Snapshot
	var created string
	if err := sc.Scan(&snap.ID, &snap.Rule, &snap.Width, &snap.Capacity,
		&snap.CurrentSlot, &snap.TotalProduced, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	snap.CreatedAt = t
	return &snap, nil
}
