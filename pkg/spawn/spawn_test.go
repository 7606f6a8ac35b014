package spawn

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func TestStart(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell scripts")
	}

	t.Run("captures output and arguments", func(t *testing.T) {
		script := writeScript(t, "#!/bin/sh\necho \"args: $@\"\n")
		var out strings.Builder

		proc, err := Start(context.Background(), script, []string{"one", "two"}, Options{Stdout: &out})
		require.NoError(t, err)
		require.NoError(t, proc.Wait())
		assert.Equal(t, 0, proc.ExitCode())
		assert.Equal(t, "args: one two\n", out.String())
		assert.Positive(t, proc.Pid())
	})

	t.Run("nonzero exit code", func(t *testing.T) {
		script := writeScript(t, "#!/bin/sh\nexit 3\n")

		proc, err := Start(context.Background(), script, nil, Options{})
		require.NoError(t, err)
		require.Error(t, proc.Wait())
		assert.Equal(t, 3, proc.ExitCode())
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := Start(context.Background(), filepath.Join(t.TempDir(), "absent"), nil, Options{})
		assert.Error(t, err)
	})

	t.Run("working directory", func(t *testing.T) {
		script := writeScript(t, "#!/bin/sh\npwd\n")
		dir := t.TempDir()
		var out strings.Builder

		proc, err := Start(context.Background(), script, nil, Options{Stdout: &out, Dir: dir})
		require.NoError(t, err)
		require.NoError(t, proc.Wait())
		assert.Equal(t, dir, strings.TrimSpace(out.String()))
	})
}
