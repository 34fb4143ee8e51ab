package store

import (
	"context"
	"fmt"
	"log/slog"

	"appdeck/internal/app"
)

func (s *SQLiteStore) History(ctx context.Context) app.History {
	h := app.History{}
	rows, err := s.db.QueryContext(ctx, "SELECT path, last_launched FROM history")
	if err != nil {
		slog.Warn("history unreadable, using empty history", "err", err)
		return h
	}
	defer rows.Close()

	for rows.Next() {
		var (
			path string
			ts   float64
		)
		if err := rows.Scan(&path, &ts); err != nil {
			slog.Debug("skipping history row", "err", err)
			continue
		}
		if path == "" || !app.ValidSeconds(ts) {
			continue
		}
		h[path] = ts
	}
	if err := rows.Err(); err != nil {
		slog.Warn("history read interrupted, using empty history", "err", err)
		return app.History{}
	}
	return h
}

func (s *SQLiteStore) RecordLaunch(ctx context.Context, path string, ts float64) error {
	if path == "" {
		return ErrInvalidPath
	}
	if !app.ValidSeconds(ts) {
		return fmt.Errorf("%w: %v", ErrInvalidTimestamp, ts)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO history (path, last_launched) VALUES (?, ?) ON CONFLICT(path) DO UPDATE SET last_launched = excluded.last_launched",
		path, ts,
	)
	if err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	q := "SELECT path, last_launched FROM history ORDER BY last_launched DESC, path ASC"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Path, &e.LastLaunched); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Forget(ctx context.Context, path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE path = ?", path)
	return err
}

func (s *SQLiteStore) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM history")
	return err
}
