package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsFor(t *testing.T) {
	mac := defaultsFor("darwin")
	assert.Equal(t, ".app", mac.Scan.Extension)
	assert.Equal(t, "/Applications", mac.Scan.Roots[0])
	assert.True(t, mac.Scan.RegisteredLookup)
	assert.Contains(t, mac.Scan.RegisteredCommand, "{root}")
	assert.Equal(t, "open {path}", mac.Launch.OpenCommand)
	require.NoError(t, mac.Validate())

	linux := defaultsFor("linux")
	assert.Equal(t, ".desktop", linux.Scan.Extension)
	assert.False(t, linux.Scan.RegisteredLookup)
	require.NoError(t, linux.Validate())
}

func TestLoadFromFile_Missing(t *testing.T) {
	t.Setenv("APPDECK_ROOTS", "")
	t.Setenv("APPDECK_DEBUG", "")
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFile_Overrides(t *testing.T) {
	t.Setenv("APPDECK_ROOTS", "")
	t.Setenv("APPDECK_DEBUG", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scan:
  roots: [/opt/apps, ~/Apps]
  extension: .app
  registered_lookup: false
  root_timeout_ms: 250
cache:
  snapshot: false
ui:
  max_results: 10
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/apps", "~/Apps"}, cfg.Scan.Roots)
	assert.Equal(t, ".app", cfg.Scan.Extension)
	assert.False(t, cfg.Scan.RegisteredLookup)
	assert.Equal(t, int64(250), cfg.Scan.RootTimeout().Milliseconds())
	assert.False(t, cfg.Cache.Snapshot)
	assert.Equal(t, 10, cfg.UI.MaxResults)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultConfig().Launch.OpenCommand, cfg.Launch.OpenCommand)
}

func TestLoadFromFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [unclosed"), 0o644))
	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "parse")
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  extension: app\n"), 0o644))
	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "scan.extension")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative timeout", func(c *Config) { c.Scan.RootTimeoutMs = -1 }, "root_timeout_ms"},
		{"negative workers", func(c *Config) { c.Scan.Workers = -2 }, "workers"},
		{"bare dot", func(c *Config) { c.Scan.Extension = "." }, "extension"},
		{"empty open", func(c *Config) { c.Launch.OpenCommand = "  " }, "open_command"},
		{"negative results", func(c *Config) { c.UI.MaxResults = -1 }, "max_results"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"lookup without command", func(c *Config) {
			c.Scan.RegisteredLookup = true
			c.Scan.RegisteredCommand = ""
		}, "registered_command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultsFor("darwin")
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APPDECK_ROOTS", "/a"+string(os.PathListSeparator)+" /b "+string(os.PathListSeparator))
	t.Setenv("APPDECK_DEBUG", "1")
	cfg := defaultsFor("linux")
	cfg.ApplyEnvOverrides()
	assert.Equal(t, []string{"/a", "/b"}, cfg.Scan.Roots)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestDebugFromEnv(t *testing.T) {
	for v, want := range map[string]bool{"": false, "0": false, "false": false, "FALSE": false, "1": true, "yes": true} {
		t.Setenv("APPDECK_DEBUG", v)
		assert.Equal(t, want, DebugFromEnv(), "APPDECK_DEBUG=%q", v)
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	t.Setenv("APPDECK_ROOTS", "")
	t.Setenv("APPDECK_DEBUG", "")
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.UI.MaxResults = 7
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/x/config")
	t.Setenv("XDG_DATA_HOME", "/x/data")
	t.Setenv("XDG_CACHE_HOME", "/x/cache")
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("APPDECK_CONFIG", "")

	p := DefaultPaths()
	assert.Equal(t, "/x/config/appdeck/config.yaml", p.ConfigFile())
	assert.Equal(t, "/x/data/appdeck/appdeck.db", p.DatabaseFile())
	assert.Equal(t, "/x/data/appdeck/logs/appdeck.log", p.LogFile())
	assert.Equal(t, "/x/cache/appdeck/run/appdeck.lock", p.LockFile())

	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("APPDECK_CONFIG", "/etc/appdeck.yaml")
	p = DefaultPaths()
	assert.Equal(t, "/run/user/1000/appdeck/appdeck.lock", p.LockFile())
	assert.Equal(t, "/etc/appdeck.yaml", p.ConfigFile())
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	p := &Paths{
		ConfigDir:  filepath.Join(base, "c"),
		DataDir:    filepath.Join(base, "d"),
		CacheDir:   filepath.Join(base, "k"),
		RuntimeDir: filepath.Join(base, "r"),
	}
	require.NoError(t, p.EnsureDirectories())
	assert.DirExists(t, p.LogDir())
	assert.DirExists(t, p.RuntimeDir)
}
