package bundle

import (
	"bufio"
	"os"
	"strings"
)

// DesktopReader reads freedesktop.org desktop entries.
//
// Name is the display name and GenericName the short name. Entries marked
// NoDisplay or Hidden, and entries whose Type is not Application, are not
// launchable.
type DesktopReader struct{}

// Read implements Reader.
func (DesktopReader) Read(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	var (
		md      Metadata
		inEntry bool
		kind    string
		hidden  bool
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' && line[len(line)-1] == ']' {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Name":
			if md.DisplayName == "" {
				md.DisplayName = value
			}
		case "GenericName":
			if md.ShortName == "" {
				md.ShortName = value
			}
		case "Type":
			kind = value
		case "NoDisplay", "Hidden":
			if strings.EqualFold(value, "true") {
				hidden = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, err
	}
	if hidden || (kind != "" && kind != "Application") {
		return Metadata{}, ErrNotLaunchable
	}
	return md, nil
}
