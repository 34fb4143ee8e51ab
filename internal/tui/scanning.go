package tui

import (
	"context"
	"fmt"
	"time"

	"appdeck/internal/app"
	"appdeck/internal/index"
	"appdeck/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Scanner produces candidate sets. *index.Indexer implements it.
type Scanner interface {
	Cached(ctx context.Context) []app.Record
	Index(ctx context.Context, commit index.Commit) ([]app.Record, index.Stats)
}

// seedMsg carries the snapshot loaded at startup.
type seedMsg struct {
	records []app.Record
}

// scanDoneMsg is sent when the scan tagged gen completes. Its records were
// already offered to the session; stats.Superseded says they were refused.
type scanDoneMsg struct {
	gen   uint64
	stats index.Stats
}

func loadSnapshot(sc Scanner) tea.Cmd {
	return func() tea.Msg {
		return seedMsg{records: sc.Cached(context.Background())}
	}
}

func runScan(sc Scanner, sess *session.Session, gen uint64) tea.Cmd {
	return func() tea.Msg {
		_, stats := sc.Index(context.Background(), func(records []app.Record) bool {
			return sess.Complete(gen, records)
		})
		return scanDoneMsg{gen: gen, stats: stats}
	}
}

func scanSummary(stats index.Stats) string {
	s := fmt.Sprintf("%d apps from %d roots in %s", stats.Candidates, stats.RootsScanned, stats.Elapsed.Round(time.Millisecond))
	if stats.RootsSkipped > 0 {
		s += fmt.Sprintf(", %d skipped", stats.RootsSkipped)
	}
	return s
}
