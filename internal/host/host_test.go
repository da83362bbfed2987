package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqme/hype/internal/herrors"
	"github.com/rizqme/hype/internal/manifest"
)

func newTestManifest(t *testing.T, dir string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Load(dir)
	require.NoError(t, err)
	return m
}

func TestHostRunSimpleScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(script, []byte(`globalThis.__result = 1 + 2;`), 0o644))

	h := New(Options{}, newTestManifest(t, dir), dir)
	defer h.Dispose()

	require.NoError(t, h.Run(script))
	assert.Equal(t, int64(3), h.Runtime.Get("__result").ToInteger())
}

func TestHostRunScriptThrows(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(script, []byte(`throw new Error("kaboom");`), 0o644))

	h := New(Options{}, newTestManifest(t, dir), dir)
	defer h.Dispose()

	err := h.Run(script)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindScriptExecutionError))
}

func TestHostRunCompileError(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(script, []byte(`function( {{`), 0o644))

	h := New(Options{}, newTestManifest(t, dir), dir)
	defer h.Dispose()

	err := h.Run(script)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindModuleCompileError))
}

func TestHostRequireRelativeScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dep.js"), []byte(`module.exports = { greeting: "hi" };`), 0o644))
	main := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(main, []byte(`
		var dep = require("./dep");
		globalThis.__result = dep.greeting;
	`), 0o644))

	h := New(Options{}, newTestManifest(t, dir), dir)
	defer h.Dispose()

	require.NoError(t, h.Run(main))
	assert.Equal(t, "hi", h.Runtime.Get("__result").String())
}

func TestHostRequireBuiltin(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(main, []byte(`
		var mod = require("stub");
		globalThis.__result = mod.value;
	`), 0o644))

	h := New(Options{}, newTestManifest(t, dir), dir)
	defer h.Dispose()
	h.RegisterBuiltin("stub", func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("value", "builtin-value")
		return obj, nil
	})

	require.NoError(t, h.Run(main))
	assert.Equal(t, "builtin-value", h.Runtime.Get("__result").String())
}

func TestHostRequireCacheIsLiveView(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dep.js"), []byte(`module.exports = {};`), 0o644))
	main := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(main, []byte(`
		require("./dep");
		globalThis.__cacheSize = Object.keys(require.cache).length;
	`), 0o644))

	h := New(Options{}, newTestManifest(t, dir), dir)
	defer h.Dispose()

	require.NoError(t, h.Run(main))
	assert.Equal(t, int64(1), h.Runtime.Get("__cacheSize").ToInteger())
}

func TestHostProcessGlobalsExposed(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(main, []byte(`
		globalThis.__hasArgv = Array.isArray(process.argv);
		globalThis.__platform = process.platform;
	`), 0o644))

	h := New(Options{}, newTestManifest(t, dir), dir)
	defer h.Dispose()

	require.NoError(t, h.Run(main))
	assert.True(t, h.Runtime.Get("__hasArgv").ToBoolean())
	assert.NotEmpty(t, h.Runtime.Get("__platform").String())
}

func TestHostEnvAccessPolicyDenyAll(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HYPE_TEST_SECRET", "shh")
	main := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(main, []byte(`globalThis.__env = process.env;`), 0o644))

	h := New(Options{EnvAccessPolicy: EnvAccessPolicy{Mode: "deny_all"}}, newTestManifest(t, dir), dir)
	defer h.Dispose()

	require.NoError(t, h.Run(main))
	envObj := h.Runtime.Get("__env").ToObject(h.Runtime)
	assert.True(t, goja.IsUndefined(envObj.Get("HYPE_TEST_SECRET")))
}

func TestHostEnvAccessPolicyAllowlist(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HYPE_TEST_VISIBLE", "yes")
	t.Setenv("HYPE_TEST_HIDDEN", "no")
	main := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(main, []byte(`globalThis.__v = process.env.HYPE_TEST_VISIBLE; globalThis.__h = process.env.HYPE_TEST_HIDDEN;`), 0o644))

	h := New(Options{EnvAccessPolicy: EnvAccessPolicy{Mode: "allowlist", Names: []string{"HYPE_TEST_VISIBLE"}}}, newTestManifest(t, dir), dir)
	defer h.Dispose()

	require.NoError(t, h.Run(main))
	assert.Equal(t, "yes", h.Runtime.Get("__v").String())
	assert.True(t, goja.IsUndefined(h.Runtime.Get("__h")))
}
