package install

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	return log
}

func writeManifest(t *testing.T, dir, name, version string, bin map[string]string) {
	t.Helper()
	binJSON := "{}"
	if len(bin) > 0 {
		binJSON = `{"run": "main.js"}`
	}
	content := `{"name": "` + name + `", "version": "` + version + `", "bin": ` + binJSON + `}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0o644))
	if len(bin) > 0 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.js"), []byte(`1;`), 0o644))
	}
}

func TestInstallRegistersPackageAndWritesWrapper(t *testing.T) {
	hypeHome := t.TempDir()
	t.Setenv("HYPE_HOME", hypeHome)

	pkgDir := t.TempDir()
	writeManifest(t, pkgDir, "mytool", "1.0.0", map[string]string{"run": "main.js"})

	cmd := New(newTestLogger())
	cmd.SetArgs([]string{pkgDir})
	require.NoError(t, cmd.Execute())

	wrapperName := "run"
	if runtime.GOOS == "windows" {
		wrapperName += ".cmd"
	}
	wrapperPath := filepath.Join(hypeHome, "bin", wrapperName)
	assert.FileExists(t, wrapperPath)

	registryPath := filepath.Join(hypeHome, "registry.json")
	assert.FileExists(t, registryPath)
}

func TestInstallConflictingBinCommandFails(t *testing.T) {
	hypeHome := t.TempDir()
	t.Setenv("HYPE_HOME", hypeHome)

	pkgDirA := t.TempDir()
	writeManifest(t, pkgDirA, "tool-a", "1.0.0", map[string]string{"run": "main.js"})
	cmdA := New(newTestLogger())
	cmdA.SetArgs([]string{pkgDirA})
	require.NoError(t, cmdA.Execute())

	pkgDirB := t.TempDir()
	writeManifest(t, pkgDirB, "tool-b", "1.0.0", map[string]string{"run": "main.js"})
	cmdB := New(newTestLogger())
	cmdB.SetArgs([]string{pkgDirB})
	err := cmdB.Execute()
	require.Error(t, err)
}

func TestInstallPackageWithNoBinCommands(t *testing.T) {
	hypeHome := t.TempDir()
	t.Setenv("HYPE_HOME", hypeHome)

	pkgDir := t.TempDir()
	writeManifest(t, pkgDir, "nobin", "1.0.0", nil)

	cmd := New(newTestLogger())
	cmd.SetArgs([]string{pkgDir})
	assert.NoError(t, cmd.Execute())
}
