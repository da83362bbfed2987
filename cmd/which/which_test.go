package which

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqme/hype/internal/manifest"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	return log
}

func TestWhichKnownCommand(t *testing.T) {
	t.Setenv("HYPE_HOME", t.TempDir())
	reg, err := manifest.LoadInstallRegistry()
	require.NoError(t, err)
	require.NoError(t, reg.AddPackage("mytool", "1.0.0", "/tmp/mytool", map[string]string{"run": "main.js"}))
	require.NoError(t, reg.Save())

	cmd := New(newTestLogger())
	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
}

func TestWhichUnknownCommandErrors(t *testing.T) {
	t.Setenv("HYPE_HOME", t.TempDir())

	cmd := New(newTestLogger())
	cmd.SetArgs([]string{"nope"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestOwnerNameStripsVersionSuffix(t *testing.T) {
	assert.Equal(t, "mytool", ownerName("mytool@1.0.0"))
	assert.Equal(t, "no-version", ownerName("no-version"))
	assert.Equal(t, "scoped@pkg", ownerName("scoped@pkg@2.0.0"))
}
