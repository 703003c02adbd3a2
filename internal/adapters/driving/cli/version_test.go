package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runVersion executes the version command and returns its output.
func runVersion(t *testing.T) string {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

// TestVersionCmd_Use tests the command metadata
func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the canopy version", versionCmd.Short)
}

// TestVersionCmd_PrintsInjectedVersion tests the ldflags-injected version
func TestVersionCmd_PrintsInjectedVersion(t *testing.T) {
	original := version
	SetVersion("1.4.0")
	defer func() { version = original }()

	out := runVersion(t)

	assert.Contains(t, out, "canopy version 1.4.0")
	assert.Contains(t, out, runtime.Version())
}

// TestVersionCmd_DefaultsToDev tests the unreleased-build fallback
func TestVersionCmd_DefaultsToDev(t *testing.T) {
	out := runVersion(t)

	assert.Contains(t, out, "canopy version dev")
}
