// Package config loads the appdeck configuration and knows where its files live.
package config

import (
	"os"
	"path/filepath"
)

// Paths holds the directories appdeck reads and writes.
type Paths struct {
	// ConfigDir holds config.yaml (~/.config/appdeck)
	ConfigDir string

	// DataDir holds the database and logs (~/.local/share/appdeck)
	DataDir string

	// CacheDir is for disposable files (~/.cache/appdeck)
	CacheDir string

	// RuntimeDir holds the session lock
	RuntimeDir string
}

// DefaultPaths returns the default paths based on the XDG Base Directory spec.
func DefaultPaths() *Paths {
	home := homeDir()

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(home, ".cache")
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = filepath.Join(cacheHome, "appdeck", "run")
	} else {
		runtimeDir = filepath.Join(runtimeDir, "appdeck")
	}

	return &Paths{
		ConfigDir:  filepath.Join(configHome, "appdeck"),
		DataDir:    filepath.Join(dataHome, "appdeck"),
		CacheDir:   filepath.Join(cacheHome, "appdeck"),
		RuntimeDir: runtimeDir,
	}
}

// ConfigFile returns the config file path. APPDECK_CONFIG overrides it.
func (p *Paths) ConfigFile() string {
	if v := os.Getenv("APPDECK_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite database.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.DataDir, "appdeck.db")
}

// LockFile returns the path to the session lock.
func (p *Paths) LockFile() string {
	return filepath.Join(p.RuntimeDir, "appdeck.lock")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

// LogFile returns the path to the default log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "appdeck.log")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir, p.RuntimeDir, p.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}
