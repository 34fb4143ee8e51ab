package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"appdeck/internal/app"
	"appdeck/internal/bundle"
	"appdeck/internal/config"
	"appdeck/internal/index"
	"appdeck/internal/launch"
	"appdeck/internal/lock"
	"appdeck/internal/logging"
	"appdeck/internal/registered"
	"appdeck/internal/store"

	"github.com/dustin/go-humanize"
)

// env is everything a command needs, opened from config and flags.
type env struct {
	cfg     *config.Config
	paths   *config.Paths
	store   *store.SQLiteStore
	indexer *index.Indexer

	lock    *lock.Lock
	logFile io.Closer
}

type envOptions struct {
	// interactive commands log to the log file and hold the session lock.
	interactive bool
}

func openEnv(opts envOptions) (*env, error) {
	paths := config.DefaultPaths()

	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = paths.ConfigFile()
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, paths: paths}
	e.setupLogging(opts.interactive)
	slog.Debug("config loaded", "path", cfgPath, "roots", cfg.Scan.Roots, "extension", cfg.Scan.Extension)

	if opts.interactive {
		l, err := lock.Acquire(paths.LockFile())
		if err != nil {
			e.Close()
			return nil, err
		}
		e.lock = l
	}

	dbPath := flagDB
	if dbPath == "" {
		dbPath = paths.DatabaseFile()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.store = st

	if err := e.buildIndexer(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// buildIndexer (re)creates the indexer from the current config.
func (e *env) buildIndexer() error {
	opts, err := scanOptions(e.cfg)
	if err != nil {
		return err
	}
	e.indexer = index.New(e.store, index.Config{Options: opts, Snapshot: e.cfg.Cache.Snapshot})
	return nil
}

func (e *env) setupLogging(interactive bool) {
	debug := flagDebug || config.DebugFromEnv()
	if !interactive {
		logging.Install(logging.Config{Output: os.Stderr, Level: slog.LevelWarn, Debug: debug})
		return
	}

	// The alt screen owns stderr while the picker runs.
	logPath := e.cfg.Log.File
	if logPath == "" {
		logPath = e.paths.LogFile()
	}
	f, err := logging.OpenFile(logPath)
	if err != nil {
		logging.Install(logging.Config{Output: io.Discard})
		return
	}
	e.logFile = f
	logging.Install(logging.Config{Output: f, Level: logging.ParseLevel(e.cfg.Log.Level), Debug: debug})
}

func scanOptions(cfg *config.Config) (index.Options, error) {
	readers := bundle.DefaultRegistry()
	if !readers.Extensions()[strings.ToLower(cfg.Scan.Extension)] {
		slog.Debug("no metadata reader for extension, using file names", "extension", cfg.Scan.Extension)
	}

	opts := index.Options{
		Roots:          cfg.Scan.Roots,
		Extension:      cfg.Scan.Extension,
		RootTimeout:    cfg.Scan.RootTimeout(),
		Workers:        cfg.Scan.Workers,
		Readers:        readers,
		RegisteredRoot: cfg.Scan.RegisteredRoot,
	}
	if cfg.Scan.RegisteredLookup {
		lookup, err := registered.NewCommandLookup(cfg.Scan.RegisteredCommand)
		if err != nil {
			return index.Options{}, fmt.Errorf("scan.registered_command: %w", err)
		}
		opts.Registered = lookup
	}
	return opts, nil
}

// opener builds the configured open command.
func (e *env) opener() (*launch.CommandOpener, error) {
	o, err := launch.NewCommandOpener(e.cfg.Launch.OpenCommand)
	if err != nil {
		return nil, fmt.Errorf("launch.open_command: %w", err)
	}
	return o, nil
}

func (e *env) Close() {
	if e.store != nil {
		e.store.Close()
	}
	if e.lock != nil {
		e.lock.Release()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// candidates returns the snapshot when cached is set and one exists, and
// otherwise runs a fresh scan.
func (e *env) candidates(ctx context.Context, cached bool) []app.Record {
	if cached {
		if records := e.indexer.Cached(ctx); len(records) > 0 {
			slog.Debug("using snapshot", "records", len(records), "saved", humanize.Time(e.store.SnapshotSavedAt()))
			return records
		}
		slog.Debug("no snapshot, scanning")
	}
	records, _ := e.indexer.Index(ctx, nil)
	return records
}
