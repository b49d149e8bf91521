// Package store keeps pet snapshots and the minigame session log in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"glyphpet/internal/minigame"
	"glyphpet/internal/pet"
)

// SQLiteStore implements pet.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ pet.Store       = (*SQLiteStore)(nil)
	_ pet.Quarantiner = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pets (
		name TEXT PRIMARY KEY,
		state BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		pet TEXT NOT NULL,
		game TEXT NOT NULL,
		won INTEGER NOT NULL,
		wins INTEGER NOT NULL,
		fails INTEGER NOT NULL,
		closed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_pet ON sessions(pet, closed_at DESC);

	CREATE TABLE IF NOT EXISTS unreadable_pets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		state BLOB NOT NULL,
		kept_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts a pet snapshot.
func (s *SQLiteStore) Save(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return pet.ErrInvalidName
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pets (name, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		name, data, now)
	if err != nil {
		return fmt.Errorf("save pet: %w", err)
	}
	return nil
}

// Load returns a snapshot or pet.ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT state FROM pets WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pet.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load pet: %w", err)
	}
	return data, nil
}

// Quarantine keeps a snapshot that could not be decoded. Every call adds
// a row, so repeated failures never overwrite each other.
func (s *SQLiteStore) Quarantine(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unreadable_pets (id, name, state, kept_at) VALUES (?, ?, ?, ?)`,
		ulid.Make().String(), name, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("keep unreadable pet: %w", err)
	}
	return nil
}

// Unreadable returns the kept snapshots for a pet, oldest first.
func (s *SQLiteStore) Unreadable(ctx context.Context, name string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT state FROM unreadable_pets WHERE name = ? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("query unreadable pets: %w", err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan unreadable pet: %w", err)
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

// List returns pet names in order.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a pet and its session history.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pet.ErrNotFound
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE pet = ?`, name); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

// LogSession records a closed minigame session.
func (s *SQLiteStore) LogSession(ctx context.Context, sum minigame.Summary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, pet, game, won, wins, fails, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.Pet, string(sum.Game), sum.Won, sum.Wins, sum.Fails,
		sum.ClosedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("log session: %w", err)
	}
	return nil
}

// Sessions returns a pet's most recent sessions, newest first.
func (s *SQLiteStore) Sessions(ctx context.Context, name string, limit int) ([]minigame.Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pet, game, won, wins, fails, closed_at
		FROM sessions WHERE pet = ?
		ORDER BY closed_at DESC, id DESC LIMIT ?`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []minigame.Summary
	for rows.Next() {
		var sum minigame.Summary
		var game, closedAt string
		if err := rows.Scan(&sum.ID, &sum.Pet, &game, &sum.Won, &sum.Wins, &sum.Fails, &closedAt); err != nil {
			return nil, err
		}
		sum.Game = minigame.Kind(game)
		sum.ClosedAt, _ = time.Parse(time.RFC3339Nano, closedAt)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
