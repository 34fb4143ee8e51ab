package store

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"appdeck/internal/app"
)

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, records []app.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO snapshot (position, identity, display_name, path, last_launched) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Identity, r.DisplayName, r.Path, r.LastLaunched); err != nil {
			return err
		}
	}

	const upsertMeta = "INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if _, err := tx.ExecContext(ctx, upsertMeta, metaSnapshotSchema, snapshotSchema); err != nil {
		return err
	}
	savedAt := strconv.FormatInt(time.Now().Unix(), 10)
	if _, err := tx.ExecContext(ctx, upsertMeta, metaSnapshotSavedAt, savedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadSnapshot discards the whole snapshot when any row is unusable.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) []app.Record {
	schema, err := s.GetMeta(metaSnapshotSchema)
	if err != nil {
		slog.Warn("snapshot meta unreadable", "err", err)
		return nil
	}
	if schema == "" {
		return nil
	}
	if schema != snapshotSchema {
		slog.Debug("ignoring snapshot from another schema", "schema", schema)
		return nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT identity, display_name, path, last_launched FROM snapshot ORDER BY position",
	)
	if err != nil {
		slog.Warn("snapshot unreadable", "err", err)
		return nil
	}
	defer rows.Close()

	var records []app.Record
	seen := map[string]bool{}
	for rows.Next() {
		var r app.Record
		if err := rows.Scan(&r.Identity, &r.DisplayName, &r.Path, &r.LastLaunched); err != nil {
			slog.Warn("snapshot row unreadable, discarding snapshot", "err", err)
			return nil
		}
		if r.Path == "" || r.Identity != r.Path || !app.ValidSeconds(r.LastLaunched) || seen[r.Path] {
			slog.Warn("snapshot row invalid, discarding snapshot", "path", r.Path)
			return nil
		}
		seen[r.Path] = true
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		slog.Warn("snapshot read interrupted", "err", err)
		return nil
	}
	return records
}

// SnapshotSavedAt returns when the snapshot was last written, or the zero
// time if it never was.
func (s *SQLiteStore) SnapshotSavedAt() time.Time {
	v, err := s.GetMeta(metaSnapshotSavedAt)
	if err != nil || v == "" {
		return time.Time{}
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
