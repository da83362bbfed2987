package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqme/hype/internal/herrors"
)

func writeScript(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("module.exports = {};"), 0o644))
	return path
}

func TestResolveBuiltinTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "fs.js")
	r := New(Options{Builtins: map[string]bool{"fs": true}, RootDir: dir})

	loc, err := r.Resolve("fs", dir)
	require.NoError(t, err)
	assert.Equal(t, KindBuiltin, loc.Kind)
	assert.Equal(t, "fs", loc.Name)
}

func TestResolveRelativeFile(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "util.js")
	r := New(Options{})

	loc, err := r.Resolve("./util.js", dir)
	require.NoError(t, err)
	assert.Equal(t, KindScriptFile, loc.Kind)
	assert.Contains(t, loc.Path, "util.js")
}

func TestResolveRelativeExtensionLess(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "helper.js")
	r := New(Options{})

	loc, err := r.Resolve("./helper", dir)
	require.NoError(t, err)
	assert.Equal(t, KindScriptFile, loc.Kind)
}

func TestResolveRelativeNotFound(t *testing.T) {
	dir := t.TempDir()
	r := New(Options{})

	_, err := r.Resolve("./nope", dir)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindModuleNotFound))
}

func TestResolveAbsoluteRefusedByDefault(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "abs.js")
	r := New(Options{AllowAbsolutePaths: false})

	_, err := r.Resolve(script, dir)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindAbsolutePathRefused))
}

func TestResolveAbsoluteAllowed(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "abs.js")
	r := New(Options{AllowAbsolutePaths: true})

	loc, err := r.Resolve(script, dir)
	require.NoError(t, err)
	assert.Equal(t, KindScriptFile, loc.Kind)
}

func TestResolveLocalPackageDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeScript(t, dir, filepath.Join(PackageDirName, "leftpad", "index.js"))

	r := New(Options{})
	loc, err := r.Resolve("leftpad", sub)
	require.NoError(t, err)
	assert.Equal(t, KindScriptFile, loc.Kind)
	assert.Contains(t, loc.Path, "leftpad")
}

func TestResolveLocalPackageDirectoryMainField(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, PackageDirName, "mypkg")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	writeScript(t, pkgDir, "lib/entry.js")
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"),
		[]byte(`{"name": "mypkg", "version": "1.0.0", "main": "lib/entry.js"}`), 0o644))

	r := New(Options{})
	loc, err := r.Resolve("mypkg", dir)
	require.NoError(t, err)
	assert.Contains(t, loc.Path, filepath.Join("lib", "entry.js"))
}

func TestResolveGlobalModulesDir(t *testing.T) {
	dir := t.TempDir()
	globalDir := t.TempDir()
	writeScript(t, globalDir, filepath.Join("leftpad", "index.js"))

	r := New(Options{GlobalModulesDir: globalDir})
	loc, err := r.Resolve("leftpad", dir)
	require.NoError(t, err)
	assert.Equal(t, KindScriptFile, loc.Kind)
}

func TestResolveDirectFileFallback(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "tool.js")

	r := New(Options{RootDir: root})
	loc, err := r.Resolve("tool", root)
	require.NoError(t, err)
	assert.Equal(t, KindScriptFile, loc.Kind)
}

func TestResolveNotFoundListsSearched(t *testing.T) {
	dir := t.TempDir()
	r := New(Options{RootDir: dir})

	_, err := r.Resolve("nonexistent-module", dir)
	require.Error(t, err)
	he, ok := err.(*herrors.HypeError)
	require.True(t, ok)
	assert.Equal(t, herrors.KindModuleNotFound, he.Kind)
	assert.NotEmpty(t, he.Chain)
}

func TestResolveImportMapRewrite(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "real.js")
	r := New(Options{ImportMap: map[string]string{"alias": "./real.js"}})

	loc, err := r.Resolve("alias", dir)
	require.NoError(t, err)
	assert.Contains(t, loc.Path, "real.js")
}

func TestResolvePluginFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "native.so")
	require.NoError(t, os.WriteFile(path, []byte("fake"), 0o644))

	r := New(Options{})
	loc, err := r.Resolve("./native.so", dir)
	require.NoError(t, err)
	assert.Equal(t, KindPlugin, loc.Kind)
}

func TestCanonicalKeyFor(t *testing.T) {
	assert.Equal(t, "builtin:fs", CanonicalKeyFor(Location{Kind: KindBuiltin, Name: "fs"}))
	assert.Equal(t, "/a/b.js", CanonicalKeyFor(Location{Kind: KindScriptFile, Path: "/a/b.js"}))
}
