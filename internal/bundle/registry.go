package bundle

import (
	"path/filepath"
	"strings"
	"sync"
)

// Registry maps bundle extensions to metadata readers.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]Reader // lower-case extension with dot -> reader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// DefaultRegistry knows macOS .app bundles and freedesktop .desktop entries.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".app", PlistReader{})
	r.Register(".desktop", DesktopReader{})
	return r
}

// Register adds a reader for ext. The leading dot is optional.
func (r *Registry) Register(ext string, reader Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readers[normalizeExt(ext)] = reader
}

// Lookup returns the reader for a path based on its extension, or nil.
func (r *Registry) Lookup(path string) Reader {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readers[normalizeExt(filepath.Ext(path))]
}

// Extensions returns the registered extensions.
func (r *Registry) Extensions() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make(map[string]bool, len(r.readers))
	for ext := range r.readers {
		exts[ext] = true
	}
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
