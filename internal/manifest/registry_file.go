package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rizqme/hype/internal/herrors"
)

// InstalledPackage is one entry of the global install registry's "packages"
// mapping.
type InstalledPackage struct {
	Version     string            `json:"version"`
	InstallDate string            `json:"install_date"`
	Location    string            `json:"location"`
	Bin         map[string]string `json:"bin"`
}

// InstallRegistry is the on-disk model of ~/.hype/registry.json.
type InstallRegistry struct {
	Packages    map[string]InstalledPackage `json:"packages"`
	BinCommands map[string]string           `json:"bin_commands"`

	path string `json:"-"`
}

// HypeHome resolves the root directory for hype's user-level state,
// honoring the HYPE_HOME override.
func HypeHome() (string, error) {
	if v := os.Getenv("HYPE_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", herrors.Wrap(herrors.KindIoError, err, "resolving user home directory")
	}
	return filepath.Join(home, ".hype"), nil
}

// LoadInstallRegistry reads ~/.hype/registry.json, returning an empty
// registry if the file does not yet exist.
func LoadInstallRegistry() (*InstallRegistry, error) {
	home, err := HypeHome()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, "registry.json")
	reg := &InstallRegistry{
		Packages:    map[string]InstalledPackage{},
		BinCommands: map[string]string{},
		path:        path,
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return nil, herrors.Wrap(herrors.KindIoError, err, "reading %s", path)
	}
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, herrors.Wrap(herrors.KindManifestParseError, err, "parsing %s", path)
	}
	reg.path = path
	if reg.Packages == nil {
		reg.Packages = map[string]InstalledPackage{}
	}
	if reg.BinCommands == nil {
		reg.BinCommands = map[string]string{}
	}
	return reg, nil
}

// Save writes the registry atomically: write to a temp file in the same
// directory, then rename over the target, so a crash mid-write never leaves
// a truncated registry.json.
func (r *InstallRegistry) Save() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return herrors.Wrap(herrors.KindIoError, err, "creating %s", dir)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return herrors.Wrap(herrors.KindIoError, err, "marshaling registry.json")
	}
	tmp, err := os.CreateTemp(dir, "registry-*.json.tmp")
	if err != nil {
		return herrors.Wrap(herrors.KindIoError, err, "creating temp file in %s", dir)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return herrors.Wrap(herrors.KindIoError, err, "writing temp registry file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return herrors.Wrap(herrors.KindIoError, err, "closing temp registry file")
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return herrors.Wrap(herrors.KindIoError, err, "renaming temp registry file into place")
	}
	return nil
}

// AddPackage registers an installed package's bin commands, failing before
// any mutation if a command name collides with an existing registration
// from a different package.
func (r *InstallRegistry) AddPackage(name, version, location string, bin map[string]string) error {
	for cmd := range bin {
		if owner, exists := r.BinCommands[cmd]; exists && ownerPackage(owner) != name {
			return herrors.New(herrors.KindValidationError, "command %q is already installed by %s", cmd, owner)
		}
	}
	// Drop the previous registration of this package, if any, so commands
	// its earlier version had and this one lacks do not linger.
	r.RemovePackage(name)
	r.Packages[name] = InstalledPackage{
		Version:     version,
		InstallDate: time.Now().UTC().Format(time.RFC3339),
		Location:    location,
		Bin:         bin,
	}
	for cmd := range bin {
		r.BinCommands[cmd] = name + "@" + version
	}
	return nil
}

// ownerPackage strips the "@version" suffix from a bin_commands value.
func ownerPackage(owner string) string {
	if i := strings.LastIndex(owner, "@"); i >= 0 {
		return owner[:i]
	}
	return owner
}

// RemovePackage removes a package and its bin command registrations.
func (r *InstallRegistry) RemovePackage(name string) {
	pkg, ok := r.Packages[name]
	if !ok {
		return
	}
	for cmd := range pkg.Bin {
		delete(r.BinCommands, cmd)
	}
	delete(r.Packages, name)
}
