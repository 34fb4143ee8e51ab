// Package index turns configured scan roots into a candidate set and keeps
// the snapshot cache in step with it.
package index

import (
	"context"
	"log/slog"
	"sync"

	"appdeck/internal/app"

	"github.com/google/uuid"
)

// Store is the persistence the indexer needs.
type Store interface {
	History(ctx context.Context) app.History
	LoadSnapshot(ctx context.Context) []app.Record
	SaveSnapshot(ctx context.Context, records []app.Record) error
}

// Config holds the indexer configuration.
type Config struct {
	Options  Options
	Snapshot bool // read and write the snapshot cache
}

// Commit decides whether a finished scan's records are current. It is called
// before the snapshot is written; returning false leaves the snapshot alone.
type Commit func(records []app.Record) bool

// Indexer runs scans against the history store and maintains the snapshot.
type Indexer struct {
	store  Store
	config Config

	// commitMu orders commit+save pairs so snapshot writes land in the
	// order their scans were accepted.
	commitMu sync.Mutex
}

// New creates an Indexer.
func New(st Store, cfg Config) *Indexer {
	return &Indexer{store: st, config: cfg}
}

// Cached returns the last saved snapshot, or nothing when the snapshot cache
// is disabled or empty.
func (idx *Indexer) Cached(ctx context.Context) []app.Record {
	if !idx.config.Snapshot {
		return nil
	}
	return idx.store.LoadSnapshot(ctx)
}

// Index runs a full scan with the current history. When commit is nil or
// accepts the records, and the snapshot cache is enabled, they become the new
// snapshot; a rejected scan is reported as Superseded and persists nothing. A
// failed snapshot write is logged only.
func (idx *Indexer) Index(ctx context.Context, commit Commit) ([]app.Record, Stats) {
	scanID := uuid.NewString()
	log := slog.With("scan_id", scanID)
	log.Debug("scan started", "roots", idx.config.Options.Roots)

	history := idx.store.History(ctx)
	records, stats := Scan(ctx, idx.config.Options, history)
	stats.ScanID = scanID

	idx.commitMu.Lock()
	if commit != nil && !commit(records) {
		stats.Superseded = true
	} else if idx.config.Snapshot && ctx.Err() == nil {
		if err := idx.store.SaveSnapshot(ctx, records); err != nil {
			log.Warn("snapshot save failed", "err", err)
		}
	}
	idx.commitMu.Unlock()

	log.Info("scan complete",
		"candidates", stats.Candidates,
		"roots_scanned", stats.RootsScanned,
		"roots_skipped", stats.RootsSkipped,
		"duplicates", stats.Duplicates,
		"registered", stats.Registered,
		"dropped", stats.Dropped,
		"superseded", stats.Superseded,
		"elapsed", stats.Elapsed,
	)
	return records, stats
}
