// Package bundle reads the human-readable names an application bundle
// declares about itself.
package bundle

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrNotLaunchable is returned by a Reader when the bundle declares itself
// hidden or is not an application. The scan drops such entries.
var ErrNotLaunchable = errors.New("bundle is not a launchable application")

// Metadata holds the optional names declared by a bundle.
type Metadata struct {
	DisplayName string
	ShortName   string
}

// Reader extracts Metadata from the bundle at path.
type Reader interface {
	Read(path string) (Metadata, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(path string) (Metadata, error)

// Read implements Reader.
func (f ReaderFunc) Read(path string) (Metadata, error) { return f(path) }

// Resolve picks the display name for the bundle at path: the declared display
// name, then the declared short name, then entryName without ext. A nil
// reader or a read error falls through to the filename. ok is false only when
// the reader reports ErrNotLaunchable.
func Resolve(r Reader, path, entryName, ext string) (name string, ok bool) {
	if r != nil {
		md, err := r.Read(path)
		if errors.Is(err, ErrNotLaunchable) {
			return "", false
		}
		if err == nil {
			if v := strings.TrimSpace(md.DisplayName); v != "" {
				return v, true
			}
			if v := strings.TrimSpace(md.ShortName); v != "" {
				return v, true
			}
		}
	}
	return Stem(entryName, ext), true
}

// Stem strips ext (case-insensitively) from the base of name.
func Stem(name, ext string) string {
	base := filepath.Base(name)
	if ext != "" && len(base) > len(ext) && strings.EqualFold(base[len(base)-len(ext):], ext) {
		return base[:len(base)-len(ext)]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
