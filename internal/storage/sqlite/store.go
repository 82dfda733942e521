package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/storage/sqlite/migrations"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating when needed) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a distinct database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var ups []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			ups = append(ups, entry.Name())
		}
	}
	sort.Strings(ups)

	for _, name := range ups {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, formatTime(time.Now())); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}
	return nil
}

// ==================== Prompt overrides ====================

// Prompt returns the override stored for key. ok is false when none exists.
func (s *Store) Prompt(ctx context.Context, key string) (text string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, "SELECT text FROM prompt_overrides WHERE key = ?", key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying prompt %s: %w", key, err)
	}
	return text, true, nil
}

// SavePrompt inserts or replaces the override for key.
func (s *Store) SavePrompt(ctx context.Context, key, text string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prompt_overrides (key, text, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at
	`, key, text, formatTime(at))
	if err != nil {
		return fmt.Errorf("saving prompt %s: %w", key, err)
	}
	return nil
}

// DeletePrompt removes the override for key. Deleting a missing key is a no-op.
func (s *Store) DeletePrompt(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM prompt_overrides WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting prompt %s: %w", key, err)
	}
	return nil
}

// ==================== Usage log ====================

func (s *Store) InsertUsage(ctx context.Context, u model.Usage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_log (
			id, flow, provider, model, prompt_tokens, completion_tokens,
			latency_ms, cost, status, error, prompt_excerpt, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.ID, u.Flow, u.Provider, u.Model, u.PromptTokens, u.CompletionTokens,
		u.Latency.Milliseconds(), u.Cost, u.Status, u.Error, u.PromptExcerpt, formatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting usage %s: %w", u.ID, err)
	}
	return nil
}

// ListUsage returns the most recent entries first. flow filters when not empty.
func (s *Store) ListUsage(ctx context.Context, flow string, limit int) ([]model.Usage, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, flow, provider, model, prompt_tokens, completion_tokens,
		       latency_ms, cost, status, error, prompt_excerpt, created_at
		FROM usage_log`
	args := []any{}
	if flow != "" {
		query += " WHERE flow = ?"
		args = append(args, flow)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage: %w", err)
	}
	defer rows.Close()

	var out []model.Usage
	for rows.Next() {
		var (
			u         model.Usage
			latencyMs int64
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.Flow, &u.Provider, &u.Model, &u.PromptTokens, &u.CompletionTokens,
			&latencyMs, &u.Cost, &u.Status, &u.Error, &u.PromptExcerpt, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning usage: %w", err)
		}
		u.Latency = time.Duration(latencyMs) * time.Millisecond
		if u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing usage timestamp: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UsageTotals sums tokens and cost per flow, ordered by flow name.
func (s *Store) UsageTotals(ctx context.Context) ([]model.UsageTotals, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT flow,
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(prompt_tokens), 0),
		       COALESCE(SUM(completion_tokens), 0),
		       COALESCE(SUM(cost), 0),
		       COALESCE(AVG(latency_ms), 0)
		FROM usage_log
		GROUP BY flow
		ORDER BY flow
	`, model.UsageError)
	if err != nil {
		return nil, fmt.Errorf("querying usage totals: %w", err)
	}
	defer rows.Close()

	var out []model.UsageTotals
	for rows.Next() {
		var (
			t         model.UsageTotals
			latencyMs float64
		)
		if err := rows.Scan(&t.Flow, &t.Calls, &t.Errors, &t.PromptTokens, &t.CompletionTokens,
			&t.Cost, &latencyMs); err != nil {
			return nil, fmt.Errorf("scanning usage totals: %w", err)
		}
		t.AvgLatency = time.Duration(latencyMs * float64(time.Millisecond))
		out = append(out, t)
	}
	return out, rows.Err()
}

// Fixed width keeps lexical order equal to chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
