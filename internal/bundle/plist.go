package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// infoPlist is the subset of Contents/Info.plist the launcher cares about.
type infoPlist struct {
	DisplayName string `plist:"CFBundleDisplayName"`
	Name        string `plist:"CFBundleName"`
	PackageType string `plist:"CFBundlePackageType"`
}

// PlistReader reads macOS application bundles.
type PlistReader struct{}

// Read implements Reader. Both XML and binary plists are accepted.
func (PlistReader) Read(path string) (Metadata, error) {
	data, err := os.ReadFile(filepath.Join(path, "Contents", "Info.plist"))
	if err != nil {
		return Metadata{}, err
	}
	var info infoPlist
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return Metadata{}, fmt.Errorf("decode Info.plist: %w", err)
	}
	if info.PackageType != "" && info.PackageType != "APPL" {
		return Metadata{}, ErrNotLaunchable
	}
	return Metadata{DisplayName: info.DisplayName, ShortName: info.Name}, nil
}
