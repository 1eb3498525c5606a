package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/envgridgo/internal/executor"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An HCL file with a syntax error is guaranteed to abort loading inside
	// app.NewApp(), which panics on startup failures.
	invalidHCL := `
environment "lint" {
  commands = [
`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "envgrid.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600))

	args := []string{"-matrix", filePath, "lint"}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should return an error after recovering from the startup panic")
	assert.Contains(t, runErr.Error(), "application startup panicked")
	assert.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	args := []string{"-h"}
	out := &bytes.Buffer{}

	err := run(out, args)

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	assert.Contains(t, out.String(), "Usage:", "expected help text on the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	err := run(out, args)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	matrix := `
defaults {
  workdir = "repository-root"
}

environment "ok" {
  commands = ["echo end-to-end ok"]
}

environment "broken" {
  commands = ["exit 6"]
}
`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "envgrid.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(matrix), 0o600))

	t.Run("successful environment", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		err := run(out, []string{"-matrix", filePath, "ok"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "end-to-end ok")
	})

	t.Run("failing environment surfaces exit code", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		err := run(out, []string{"-matrix", filePath, "broken"})
		require.Error(t, err)

		var failure *executor.CommandFailure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, 6, failure.ExitCode)
		assert.Equal(t, 0, failure.Index)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		err := run(out, []string{"-matrix", filePath, "-list"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "ok\nbroken\n")
	})
}
