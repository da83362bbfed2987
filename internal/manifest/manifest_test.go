package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqme/hype/internal/herrors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingManifestReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "hype-app", m.Name)
	assert.Equal(t, "0.0.0", m.Version)
	assert.Equal(t, dir, m.ProjectRoot)
}

func TestLoadValidManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"name": "my-app",
		"version": "1.2.3",
		"main": "index.js",
		"hype": {"permissions": {"allow-net": ["example.com"]}},
		"custom-tool-field": {"nested": true}
	}`)

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "my-app", m.Name)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, []string{"example.com"}, m.Hype.Permissions.AllowNet)
	assert.Contains(t, m.Extra, "custom-tool-field")
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{not valid json`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindManifestParseError))
}

func TestLoadDuplicateKeyRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "ok", "version": "1.0.0", "name": "shadowed"}`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindManifestParseError))
}

func TestLoadNestedDuplicateKeyRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"name": "ok",
		"version": "1.0.0",
		"hype": {"permissions": {"allow-net": [], "allow-net": ["example.com"]}}
	}`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindManifestParseError))
}

func TestLoadInvalidName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "has a space", "version": "1.0.0"}`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindManifestInvalid))
}

func TestLoadMissingVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "ok-name"}`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindManifestInvalid))
}

func TestLoadBinEntryValidation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "run.js", "console.log('hi')")

	// invalid command name
	writeFile(t, dir, "package.json", `{"name": "ok", "version": "1.0.0", "bin": {"bad name": "run.js"}}`)
	_, err := Load(dir)
	require.Error(t, err)

	// absolute path refused
	writeFile(t, dir, "package.json", `{"name": "ok", "version": "1.0.0", "bin": {"good": "/etc/run.js"}}`)
	_, err = Load(dir)
	require.Error(t, err)

	// parent traversal refused
	writeFile(t, dir, "package.json", `{"name": "ok", "version": "1.0.0", "bin": {"good": "../run.js"}}`)
	_, err = Load(dir)
	require.Error(t, err)

	// nonexistent script refused
	writeFile(t, dir, "package.json", `{"name": "ok", "version": "1.0.0", "bin": {"good": "missing.js"}}`)
	_, err = Load(dir)
	require.Error(t, err)

	// valid entry passes
	writeFile(t, dir, "package.json", `{"name": "ok", "version": "1.0.0", "bin": {"good": "run.js"}}`)
	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "run.js", m.Bin["good"])
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "src", "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeFile(t, root, "package.json", `{"name": "ok", "version": "1.0.0"}`)
	entry := filepath.Join(sub, "main.js")

	got := FindProjectRoot(entry)
	assert.Equal(t, root, got)
}

func TestFindProjectRootNoManifest(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "main.js")
	got := FindProjectRoot(entry)
	assert.Equal(t, root, got)
}

func TestSaveRoundTrips(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "ok", "version": "1.0.0", "custom-field": 7}`)
	m, err := Load(dir)
	require.NoError(t, err)

	m.Version = "2.0.0"
	require.NoError(t, m.Save())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", reloaded.Version)
	assert.Contains(t, reloaded.Extra, "custom-field")
}

func TestMainEntryDefault(t *testing.T) {
	m := &Manifest{}
	assert.Equal(t, "index.js", m.MainEntry())
	m.Main = "src/app.js"
	assert.Equal(t, "src/app.js", m.MainEntry())
}
