package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"appdeck/internal/app"
	"appdeck/internal/bundle"
	"appdeck/internal/registered"
	"appdeck/internal/walker"
)

// Options configures one scan pass.
type Options struct {
	Roots       []string
	Extension   string
	RootTimeout time.Duration // per root, and for the registered lookup; 0 = unbounded
	Workers     int           // name resolution workers; <= 0 means runtime.NumCPU()

	Readers *bundle.Registry

	// Registered is the optional secondary source. Nil disables it.
	Registered     registered.Lookup
	RegisteredRoot string
}

// Stats reports scan results.
type Stats struct {
	RootsScanned int
	RootsSkipped int
	Entries      int // bundle entries listed from roots
	Registered   int // paths returned by the registered lookup
	Duplicates   int
	Dropped      int // unresolvable or not launchable
	Candidates   int
	Elapsed      time.Duration

	ScanID     string // set by Indexer.Index; also the scan_id log attribute
	Superseded bool   // a newer scan was accepted first; nothing was persisted
}

// discovered is a unique path waiting for its display name.
type discovered struct {
	path string
	name string // entry name used for reader lookup and the filename fallback
}

// resolved is the outcome of name resolution for one discovered path.
type resolved struct {
	name string
	ok   bool
}

// Scan discovers applications under opts.Roots and from the registered
// lookup, keeps the first occurrence of each canonical path, and joins the
// last-launched time from history. Scan never fails; anything that goes wrong
// costs candidates, not an error. The result order is discovery order.
func Scan(ctx context.Context, opts Options, history app.History) ([]app.Record, Stats) {
	start := time.Now()
	var stats Stats

	// Stage 1: registered lookup runs alongside the directory pass.
	lookupCh := startLookup(ctx, opts)

	// Stage 2: directory pass, in root order.
	entries, ws := walker.Walk(ctx, opts.Roots, opts.Extension, opts.RootTimeout)
	stats.RootsScanned = ws.RootsScanned
	stats.RootsSkipped = ws.RootsSkipped
	stats.Entries = ws.EntriesSeen
	stats.Dropped = ws.Dropped

	// Stage 3: merge into one dedup set, directory entries first.
	seen := make(map[string]bool, len(entries))
	work := make([]discovered, 0, len(entries))
	for _, e := range entries {
		if seen[e.Path] {
			stats.Duplicates++
			continue
		}
		seen[e.Path] = true
		work = append(work, discovered{path: e.Path, name: e.Name})
	}

	for _, p := range <-lookupCh {
		name := filepath.Base(p)
		if !walker.MatchExt(name, opts.Extension) {
			continue
		}
		stats.Registered++
		canonical, err := walker.Canonical(p)
		if err != nil {
			stats.Dropped++
			continue
		}
		if seen[canonical] {
			stats.Duplicates++
			continue
		}
		seen[canonical] = true
		work = append(work, discovered{path: canonical, name: name})
	}

	// Stage 4: resolve display names (N workers, results kept by index).
	names := resolveNames(work, opts.Readers, opts.Extension, opts.Workers)

	records := make([]app.Record, 0, len(work))
	for i, d := range work {
		if !names[i].ok {
			stats.Dropped++
			continue
		}
		records = append(records, app.NewRecord(d.path, names[i].name, history.Lookup(d.path)))
	}

	stats.Candidates = len(records)
	stats.Elapsed = time.Since(start)
	return records, stats
}

func startLookup(ctx context.Context, opts Options) <-chan []string {
	out := make(chan []string, 1)
	if opts.Registered == nil {
		out <- nil
		return out
	}
	go func() {
		lctx := ctx
		if opts.RootTimeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(ctx, opts.RootTimeout)
			defer cancel()
		}
		paths, err := opts.Registered.Lookup(lctx, opts.RegisteredRoot)
		if err != nil {
			slog.Debug("registered lookup failed", "err", err)
			paths = nil
		}
		out <- paths
	}()
	return out
}

func resolveNames(work []discovered, readers *bundle.Registry, ext string, numWorkers int) []resolved {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	results := make([]resolved, len(work))

	jobs := make(chan int, numWorkers)
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				d := work[i]
				name, ok := bundle.Resolve(readers.Lookup(d.name), d.path, d.name, ext)
				results[i] = resolved{name: name, ok: ok}
			}
		}()
	}
	for i := range work {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
