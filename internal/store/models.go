package store

import "time"

// HistoryEntry is one persisted launch record.
type HistoryEntry struct {
	Path         string
	LastLaunched float64 // Unix seconds
}

// Time returns LastLaunched as a wall-clock time.
func (e HistoryEntry) Time() time.Time {
	return time.Unix(0, int64(e.LastLaunched*1e9))
}

const (
	metaSnapshotSchema  = "snapshot_schema"
	metaSnapshotSavedAt = "snapshot_saved_at"
)
