package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the appdeck configuration.
type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	Cache  CacheConfig  `yaml:"cache"`
	Launch LaunchConfig `yaml:"launch"`
	UI     UIConfig     `yaml:"ui"`
	Log    LogConfig    `yaml:"log"`
}

// ScanConfig controls application discovery.
type ScanConfig struct {
	Roots             []string `yaml:"roots"`              // Scanned in order; first occurrence wins
	Extension         string   `yaml:"extension"`          // Bundle extension, with leading dot
	RegisteredLookup  bool     `yaml:"registered_lookup"`  // Also ask the OS for registered apps
	RegisteredCommand string   `yaml:"registered_command"` // Lookup command, {root} placeholder
	RegisteredRoot    string   `yaml:"registered_root"`    // Root hint passed as {root}
	RootTimeoutMs     int      `yaml:"root_timeout_ms"`    // Per-root bound (0 = none)
	Workers           int      `yaml:"workers"`            // Name resolution workers (0 = NumCPU)
}

// CacheConfig controls the snapshot cache.
type CacheConfig struct {
	Snapshot bool `yaml:"snapshot"` // Paint from the last scan while rescanning
}

// LaunchConfig controls how applications are opened.
type LaunchConfig struct {
	OpenCommand string `yaml:"open_command"` // {path} placeholder, shell-quoted
}

// UIConfig controls the picker and listings.
type UIConfig struct {
	MaxResults int  `yaml:"max_results"` // Rows shown (0 = all)
	ShowPaths  bool `yaml:"show_paths"`  // Show bundle paths under names
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file (default <data>/logs/appdeck.log)
}

// DefaultConfig returns the defaults for the current platform.
func DefaultConfig() *Config {
	return defaultsFor(runtime.GOOS)
}

func defaultsFor(goos string) *Config {
	cfg := &Config{
		Scan: ScanConfig{
			RegisteredRoot: "/",
			RootTimeoutMs:  3000,
		},
		Cache: CacheConfig{Snapshot: true},
		UI:    UIConfig{MaxResults: 50, ShowPaths: true},
		Log:   LogConfig{Level: "info"},
	}

	if goos == "darwin" {
		cfg.Scan.Roots = []string{
			"/Applications",
			"/System/Applications",
			"/System/Applications/Utilities",
			"~/Applications",
		}
		cfg.Scan.Extension = ".app"
		cfg.Scan.RegisteredLookup = true
		cfg.Scan.RegisteredCommand = `mdfind -onlyin {root} "kMDItemContentType == 'com.apple.application-bundle'"`
		cfg.Launch.OpenCommand = "open {path}"
		return cfg
	}

	cfg.Scan.Roots = []string{
		"/usr/share/applications",
		"/usr/local/share/applications",
		"~/.local/share/applications",
		"/var/lib/flatpak/exports/share/applications",
	}
	cfg.Scan.Extension = ".desktop"
	cfg.Scan.RegisteredLookup = false
	cfg.Launch.OpenCommand = "gio launch {path}"
	return cfg
}

// RootTimeout returns the per-root scan bound.
func (s ScanConfig) RootTimeout() time.Duration {
	return time.Duration(s.RootTimeoutMs) * time.Millisecond
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns the default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnvOverrides applies environment variable overrides.
//
//	APPDECK_ROOTS  scan roots, separated by the OS path list separator
//	APPDECK_DEBUG  any non-empty value other than 0/false forces debug logging
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("APPDECK_ROOTS"); v != "" {
		var roots []string
		for _, r := range filepath.SplitList(v) {
			if r = strings.TrimSpace(r); r != "" {
				roots = append(roots, r)
			}
		}
		c.Scan.Roots = roots
	}
	if DebugFromEnv() {
		c.Log.Level = "debug"
	}
}

// DebugFromEnv reports whether APPDECK_DEBUG asks for debug logging.
func DebugFromEnv() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("APPDECK_DEBUG")))
	return v != "" && v != "0" && v != "false"
}

// Validate checks the configuration for values appdeck cannot work with.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Scan.Extension, ".") || len(c.Scan.Extension) < 2 {
		return fmt.Errorf("scan.extension must start with a dot (got: %q)", c.Scan.Extension)
	}
	if c.Scan.RootTimeoutMs < 0 {
		return errors.New("scan.root_timeout_ms must be >= 0")
	}
	if c.Scan.Workers < 0 {
		return errors.New("scan.workers must be >= 0")
	}
	if c.Scan.RegisteredLookup && strings.TrimSpace(c.Scan.RegisteredCommand) == "" {
		return errors.New("scan.registered_command is required when scan.registered_lookup is on")
	}
	if strings.TrimSpace(c.Launch.OpenCommand) == "" {
		return errors.New("launch.open_command must not be empty")
	}
	if c.UI.MaxResults < 0 {
		return errors.New("ui.max_results must be >= 0")
	}
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
