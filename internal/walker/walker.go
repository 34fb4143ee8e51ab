package walker

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is an application bundle found directly under a scan root.
type Entry struct {
	Root string // root the entry was listed from
	Name string // directory entry name, e.g. "Safari.app"
	Path string // canonical absolute path, symlinks resolved
}

// Stats reports what a walk covered.
type Stats struct {
	RootsScanned int
	RootsSkipped int
	EntriesSeen  int // matching entries before canonicalization
	Dropped      int // matching entries whose path could not be resolved
}

// Walk lists the immediate children of each root, in root order, and returns
// the ones whose name ends in ext. It never fails: missing or unreadable
// roots, roots that exceed timeout, and entries that vanish or point nowhere
// are skipped. A zero timeout disables the per-root bound.
func Walk(ctx context.Context, roots []string, ext string, timeout time.Duration) ([]Entry, Stats) {
	var (
		entries []Entry
		stats   Stats
	)
	for _, root := range roots {
		if ctx.Err() != nil {
			stats.RootsSkipped++
			continue
		}
		absRoot, err := filepath.Abs(ExpandPath(root))
		if err != nil {
			stats.RootsSkipped++
			continue
		}

		names, err := listRoot(ctx, absRoot, timeout)
		if err != nil {
			slog.Debug("skipping scan root", "root", absRoot, "err", err)
			stats.RootsSkipped++
			continue
		}
		stats.RootsScanned++

		for _, name := range names {
			if !MatchExt(name, ext) {
				continue
			}
			stats.EntriesSeen++
			canonical, err := Canonical(filepath.Join(absRoot, name))
			if err != nil {
				slog.Debug("dropping entry", "root", absRoot, "name", name, "err", err)
				stats.Dropped++
				continue
			}
			entries = append(entries, Entry{Root: absRoot, Name: name, Path: canonical})
		}
	}
	return entries, stats
}

// listRoot reads the names in dir. The read runs on its own goroutine so a
// hung filesystem only costs the timeout; the goroutine exits whenever the
// read returns.
func listRoot(ctx context.Context, dir string, timeout time.Duration) ([]string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		names []string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		des, err := os.ReadDir(dir)
		names := make([]string, 0, len(des))
		for _, de := range des {
			names = append(names, de.Name())
		}
		done <- result{names: names, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && len(r.names) == 0 {
			return nil, r.err
		}
		// ReadDir returns what it read before an error; keep it.
		return r.names, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Canonical returns the absolute, symlink-resolved form of path. It fails
// for paths that do not exist, including broken symlinks.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// MatchExt reports whether name ends in ext, ignoring case.
func MatchExt(name, ext string) bool {
	if ext == "" {
		return true
	}
	return len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext)
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	path = os.ExpandEnv(strings.TrimSpace(path))
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
