package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runners/game"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore archives races in a SQLite database, one row per change set.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS races (
			id TEXT PRIMARY KEY,
			track TEXT NOT NULL,
			racers_json TEXT NOT NULL,
			outcome TEXT NOT NULL,
			turns INTEGER NOT NULL,
			first TEXT NOT NULL,
			second TEXT NOT NULL,
			initial_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS change_sets (
			race_id TEXT NOT NULL REFERENCES races(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			moved INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (race_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_races_created ON races(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// SaveRace replaces any earlier copy of the race.
func (s *SQLiteStore) SaveRace(ctx context.Context, rec *Record) error {
	racers, err := json.Marshal(rec.Racers)
	if err != nil {
		return fmt.Errorf("failed to encode racers: %w", err)
	}
	initial, err := json.Marshal(rec.Initial)
	if err != nil {
		return fmt.Errorf("failed to encode initial board: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := rec.ID.String()
	if _, err := tx.ExecContext(ctx, `DELETE FROM races WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to replace race %s: %w", id, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO races(id, track, racers_json, outcome, turns, first, second, initial_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(rec.Track), string(racers), rec.Outcome, rec.Turns,
		string(rec.First), string(rec.Second), string(initial), rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert race %s: %w", id, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO change_sets(race_id, seq, moved, raw_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare change set insert: %w", err)
	}
	defer stmt.Close()
	for i, cs := range rec.History {
		raw, err := json.Marshal(cs)
		if err != nil {
			return fmt.Errorf("failed to encode change set %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, boolInt(cs.HasMovement()), string(raw)); err != nil {
			return fmt.Errorf("failed to insert change set %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit race %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) LoadRace(ctx context.Context, id uuid.UUID) (*Record, error) {
	var (
		track, racers, outcome, first, second, initial, created string
		turns                                                   int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT track, racers_json, outcome, turns, first, second, initial_json, created_at FROM races WHERE id = ?`,
		id.String()).Scan(&track, &racers, &outcome, &turns, &first, &second, &initial, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load race %s: %w", id, err)
	}

	rec := &Record{
		ID:      id,
		Track:   game.TrackVersion(track),
		Outcome: outcome,
		Turns:   turns,
		First:   game.RacerName(first),
		Second:  game.RacerName(second),
	}
	if err := json.Unmarshal([]byte(racers), &rec.Racers); err != nil {
		return nil, fmt.Errorf("failed to decode racers: %w", err)
	}
	if err := json.Unmarshal([]byte(initial), &rec.Initial); err != nil {
		return nil, fmt.Errorf("failed to decode initial board: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT raw_json FROM change_sets WHERE race_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load change sets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan change set: %w", err)
		}
		cs := game.NewChangeSet()
		if err := json.Unmarshal([]byte(raw), cs); err != nil {
			return nil, fmt.Errorf("failed to decode change set %d: %w", len(rec.History), err)
		}
		rec.History = append(rec.History, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read change sets: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) ListRaces(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM races ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan race id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse race id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MovementCount returns how many change sets of a race move a racer.
func (s *SQLiteStore) MovementCount(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM change_sets WHERE race_id = ? AND moved = 1`, id.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
