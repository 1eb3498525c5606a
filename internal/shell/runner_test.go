package shell

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ZeroExit(t *testing.T) {
	t.Parallel()

	code, err := New().Run(context.Background(), "true", Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRun_NonZeroExit(t *testing.T) {
	t.Parallel()

	code, err := New().Run(context.Background(), "exit 3", Options{Dir: t.TempDir()})
	require.NoError(t, err, "a non-zero exit is a result, not an error")
	assert.Equal(t, 3, code)
}

func TestRun_WorkingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var out bytes.Buffer
	code, err := New().Run(context.Background(), "pwd", Options{Dir: dir, Stdout: &out})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), dir)
}

func TestRun_Environment(t *testing.T) {
	t.Parallel()

	opts := Options{
		Dir: t.TempDir(),
		Env: []string{"PATH=/usr/bin:/bin", "GREETING=hello"},
	}
	var out bytes.Buffer
	opts.Stdout = &out

	code, err := New().Run(context.Background(), `echo "$GREETING"`, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", out.String())
}

func TestRun_LaterEnvEntriesWin(t *testing.T) {
	t.Parallel()

	opts := Options{
		Dir: t.TempDir(),
		Env: []string{"GREETING=old", "GREETING=new"},
	}
	var out bytes.Buffer
	opts.Stdout = &out

	code, err := New().Run(context.Background(), `echo "$GREETING"`, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "new\n", out.String())
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	_, err := New().Run(context.Background(), "echo 'unterminated", Options{Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
