// Package session holds the state the picker reads on every keystroke: the
// current candidate set, the query, the selection and the scan generation.
package session

import (
	"sync"
	"sync/atomic"

	"appdeck/internal/app"
	"appdeck/internal/rank"
)

// candidates is one immutable candidate set and the scan that produced it.
type candidates struct {
	records    []app.Record
	generation uint64 // 0 = seeded from the snapshot
}

// Session is safe for concurrent use. Scans complete from background
// goroutines while the UI reads results; the candidate set is only ever
// replaced as a whole.
type Session struct {
	set       atomic.Pointer[candidates]
	requested atomic.Uint64

	mu       sync.Mutex
	query    string
	limit    int
	selected int
	results  []app.Record
	resultOf *candidates // set the cached results were ranked from
	fresh    bool
}

// New creates an empty session.
func New() *Session {
	s := &Session{}
	s.set.Store(&candidates{})
	return s
}

// Seed installs records (usually the snapshot) unless a scan has already
// completed. It reports whether the records were installed.
func (s *Session) Seed(records []app.Record) bool {
	cur := s.set.Load()
	if cur.generation != 0 {
		return false
	}
	return s.set.CompareAndSwap(cur, &candidates{records: records})
}

// BeginScan starts a new scan generation and returns it. Any completion
// carrying an older generation is discarded.
func (s *Session) BeginScan() uint64 {
	return s.requested.Add(1)
}

// Complete installs the records produced by scan gen. It returns false, and
// changes nothing, if a newer scan has been requested since.
func (s *Session) Complete(gen uint64, records []app.Record) bool {
	next := &candidates{records: records, generation: gen}
	for {
		if gen != s.requested.Load() {
			return false
		}
		cur := s.set.Load()
		if cur.generation >= gen {
			return false
		}
		if s.set.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Scanning reports whether the latest requested scan has not completed yet.
func (s *Session) Scanning() bool {
	return s.set.Load().generation < s.requested.Load()
}

// Generation returns the generation of the installed candidate set.
func (s *Session) Generation() uint64 {
	return s.set.Load().generation
}

// Candidates returns the installed candidate set. Callers must not modify it.
func (s *Session) Candidates() []app.Record {
	return s.set.Load().records
}

// SetQuery replaces the query and resets the selection to the top result.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q == s.query {
		return
	}
	s.query = q
	s.selected = 0
	s.fresh = false
}

// SetLimit caps Results at n records; n <= 0 means no cap. The selection
// never leaves the capped list.
func (s *Session) SetLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == s.limit {
		return
	}
	s.limit = n
	s.fresh = false
}

// Query returns the current query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the installed candidates ranked against the current query,
// capped at the limit.
func (s *Session) Results() []app.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultsLocked()
}

func (s *Session) resultsLocked() []app.Record {
	cur := s.set.Load()
	if !s.fresh || s.resultOf != cur {
		s.results = rank.Limit(rank.Rank(cur.records, s.query), s.limit)
		s.resultOf = cur
		s.fresh = true
		s.selected = clamp(s.selected, len(s.results))
	}
	return s.results
}

// Move shifts the selection by delta, clamped to the result bounds, and
// returns the new index.
func (s *Session) Move(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := s.resultsLocked()
	s.selected = clamp(s.selected+delta, len(results))
	return s.selected
}

// SelectedIndex returns the index of the selected result.
func (s *Session) SelectedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resultsLocked()
	return s.selected
}

// Selected returns the selected result, if there is one.
func (s *Session) Selected() (app.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := s.resultsLocked()
	if len(results) == 0 {
		return app.Record{}, false
	}
	return results[s.selected], true
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
