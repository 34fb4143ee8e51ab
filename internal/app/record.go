// Package app defines the application records the launcher discovers, ranks
// and launches.
package app

import (
	"math"
	"time"
)

// Record is one discovered application.
//
// Identity is always the canonical path. It is kept as a separate field so
// callers never have to know that, but nothing should assign it anything else.
type Record struct {
	Identity     string
	DisplayName  string
	Path         string
	LastLaunched float64 // Unix seconds, 0 = never launched
}

// NewRecord builds a record keyed by its canonical path.
func NewRecord(path, displayName string, lastLaunched float64) Record {
	return Record{
		Identity:     path,
		DisplayName:  displayName,
		Path:         path,
		LastLaunched: clampSeconds(lastLaunched),
	}
}

// LastLaunchedTime returns the launch time, or the zero time if the record
// was never launched.
func (r Record) LastLaunchedTime() time.Time {
	if r.LastLaunched <= 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(r.LastLaunched)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// History maps canonical path to last-launched Unix seconds.
type History map[string]float64

// Lookup returns the last-launched time for path, or 0.
func (h History) Lookup(path string) float64 {
	if h == nil {
		return 0
	}
	return clampSeconds(h[path])
}

// Clone returns an independent copy.
func (h History) Clone() History {
	out := make(History, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// UnixSeconds converts t to fractional Unix seconds.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// ValidSeconds reports whether v can be stored as a last-launched time.
func ValidSeconds(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampSeconds(v float64) float64 {
	if !ValidSeconds(v) {
		return 0
	}
	return v
}
