package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHypeHomeHonorsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HYPE_HOME", dir)
	home, err := HypeHome()
	require.NoError(t, err)
	assert.Equal(t, dir, home)
}

func TestLoadInstallRegistryMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HYPE_HOME", dir)
	reg, err := LoadInstallRegistry()
	require.NoError(t, err)
	assert.Empty(t, reg.Packages)
	assert.Empty(t, reg.BinCommands)
}

func TestInstallRegistryAddSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HYPE_HOME", dir)

	reg, err := LoadInstallRegistry()
	require.NoError(t, err)

	require.NoError(t, reg.AddPackage("left-pad", "1.0.0", "/proj/left-pad", map[string]string{"leftpad": "bin/run.js"}))
	require.NoError(t, reg.Save())

	_, statErr := os.Stat(filepath.Join(dir, "registry.json"))
	require.NoError(t, statErr)

	reloaded, err := LoadInstallRegistry()
	require.NoError(t, err)
	assert.Contains(t, reloaded.Packages, "left-pad")
	assert.Equal(t, "left-pad@1.0.0", reloaded.BinCommands["leftpad"])
}

func TestInstallRegistryAddPackageConflict(t *testing.T) {
	reg := &InstallRegistry{Packages: map[string]InstalledPackage{}, BinCommands: map[string]string{}}
	require.NoError(t, reg.AddPackage("pkg-a", "1.0.0", "/a", map[string]string{"tool": "bin.js"}))

	err := reg.AddPackage("pkg-b", "2.0.0", "/b", map[string]string{"tool": "bin.js"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already installed by pkg-a@1.0.0")

	// no partial mutation from the failed call
	assert.NotContains(t, reg.Packages, "pkg-b")
}

func TestInstallRegistryAddPackageSameVersionReinstall(t *testing.T) {
	reg := &InstallRegistry{Packages: map[string]InstalledPackage{}, BinCommands: map[string]string{}}
	require.NoError(t, reg.AddPackage("pkg-a", "1.0.0", "/a", map[string]string{"tool": "bin.js"}))
	err := reg.AddPackage("pkg-a", "1.0.0", "/a-new-location", map[string]string{"tool": "bin.js"})
	require.NoError(t, err)
	assert.Equal(t, "/a-new-location", reg.Packages["pkg-a"].Location)
}

func TestInstallRegistryRemovePackage(t *testing.T) {
	reg := &InstallRegistry{Packages: map[string]InstalledPackage{}, BinCommands: map[string]string{}}
	require.NoError(t, reg.AddPackage("pkg-a", "1.0.0", "/a", map[string]string{"tool": "bin.js"}))

	reg.RemovePackage("pkg-a")
	assert.NotContains(t, reg.Packages, "pkg-a")
	assert.NotContains(t, reg.BinCommands, "tool")
}

func TestInstallRegistryRemovePackageUnknown(t *testing.T) {
	reg := &InstallRegistry{Packages: map[string]InstalledPackage{}, BinCommands: map[string]string{}}
	reg.RemovePackage("does-not-exist")
}
