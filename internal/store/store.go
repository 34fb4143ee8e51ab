// Package store persists launch history, the snapshot cache and a small
// key-value meta table in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"appdeck/internal/app"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrInvalidPath      = errors.New("store: empty path")
	ErrInvalidTimestamp = errors.New("store: invalid timestamp")

	errCorrupt = errors.New("database corrupt")
)

// Store provides persistence for launch history and the snapshot cache.
type Store interface {
	// History returns the whole path -> last-launched mapping. It never
	// fails; unreadable state is reported as an empty mapping.
	History(ctx context.Context) app.History
	// RecordLaunch sets the last-launched time for path.
	RecordLaunch(ctx context.Context, path string, ts float64) error
	// Recent lists history entries, most recent first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
	// Forget removes one history entry. Removing an absent path is not an error.
	Forget(ctx context.Context, path string) error
	// ClearHistory removes every history entry.
	ClearHistory(ctx context.Context) error
	// SaveSnapshot replaces the snapshot cache with records.
	SaveSnapshot(ctx context.Context, records []app.Record) error
	// LoadSnapshot returns the last saved snapshot, or nothing if there is
	// none or it cannot be trusted.
	LoadSnapshot(ctx context.Context) []app.Record
	// GetMeta returns a metadata value by key, or "" if not set.
	GetMeta(key string) (string, error)
	// SetMeta sets a metadata key-value pair.
	SetMeta(key, value string) error
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB

	// mu serializes every write so a double launch cannot lose an update.
	mu sync.Mutex
}

// Open creates or opens a SQLite database at the given path and initializes
// the schema. A file that SQLite reports as corrupt or not a database is
// moved aside to <path>.corrupt-<unix> and replaced with a fresh one.
func Open(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	st, err := open(dbPath)
	if err == nil || !isCorrupt(err) {
		return st, err
	}

	aside := fmt.Sprintf("%s.corrupt-%d", dbPath, time.Now().Unix())
	slog.Warn("database unreadable, starting fresh", "path", dbPath, "moved_to", aside, "err", err)
	if rerr := os.Rename(dbPath, aside); rerr != nil {
		return nil, fmt.Errorf("move corrupt db aside: %w", rerr)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		os.Remove(dbPath + suffix)
	}
	return open(dbPath)
}

func open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	var check string
	if err := db.QueryRow("PRAGMA quick_check").Scan(&check); err != nil {
		db.Close()
		return nil, fmt.Errorf("check db: %w", err)
	}
	if check != "ok" {
		db.Close()
		return nil, fmt.Errorf("%w: quick_check: %s", errCorrupt, check)
	}
	return &SQLiteStore{db: db}, nil
}

func isCorrupt(err error) bool {
	if errors.Is(err, errCorrupt) {
		return true
	}
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrNotADB || se.Code == sqlite3.ErrCorrupt
}

func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *SQLiteStore) SetMeta(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
