// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/chordrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for scores, settings and sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.applyPragmas(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on pragma failure.
			_ = cerr
		}
		return nil, err
	}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS difficulty_records (
			key TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			last_seen TEXT NOT NULL,
			response_times TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			categories TEXT NOT NULL,
			anki INTEGER NOT NULL,
			words_completed INTEGER NOT NULL,
			revealed INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadScores returns all difficulty records. Rows with corrupt fields are
// logged and loaded with defaults for those fields.
func (s *Store) LoadScores(ctx context.Context) (map[model.Key]model.DifficultyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, score, last_seen, response_times FROM difficulty_records`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[model.Key]model.DifficultyRecord{}
	for rows.Next() {
		var key, lastSeen, times string
		var rec model.DifficultyRecord
		if err := rows.Scan(&key, &rec.Score, &lastSeen, &times); err != nil {
			return nil, err
		}
		if rec.Score < 0 {
			logErrf("corrupt score for %q: %d\n", key, rec.Score)
			rec.Score = 0
		}
		if lastSeen != "" {
			parsed, err := time.Parse(time.RFC3339Nano, lastSeen)
			if err != nil {
				logErrf("corrupt last_seen for %q: %v\n", key, err)
			} else {
				rec.LastSeen = parsed
			}
		}
		if err := json.Unmarshal([]byte(times), &rec.ResponseTimes); err != nil {
			logErrf("corrupt response_times for %q: %v\n", key, err)
			rec.ResponseTimes = nil
		}
		result[model.Key(key)] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveScores upserts every record in one transaction.
func (s *Store) SaveScores(ctx context.Context, records map[model.Key]model.DifficultyRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO difficulty_records (key, score, last_seen, response_times)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET score = excluded.score, last_seen = excluded.last_seen, response_times = excluded.response_times`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for key, rec := range records {
		times := rec.ResponseTimes
		if times == nil {
			times = []int64{}
		}
		encoded, err := json.Marshal(times)
		if err != nil {
			return err
		}
		lastSeen := ""
		if !rec.LastSeen.IsZero() {
			lastSeen = rec.LastSeen.Format(time.RFC3339Nano)
		}
		if _, err := stmt.ExecContext(ctx, string(key), rec.Score, lastSeen, string(encoded)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// InsertSession stores a completed session. An empty ID is replaced with a new UUID.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats) (string, error) {
	id := stats.ID
	if id == "" {
		id = uuid.New().String()
	}
	anki := 0
	if stats.Anki {
		anki = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, categories, anki, words_completed, revealed, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		strings.Join(stats.Categories, ","),
		anki,
		stats.WordsCompleted,
		stats.Revealed,
		stats.DurationMs,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, words_completed, revealed, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.WordsCompleted, &agg.Revealed, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			logErrf("skipping session %s with corrupt ended_at: %v\n", agg.SessionID, err)
			continue
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
