package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dlxr-dev/dlxr/pkg/errors"
)

func TestGetDlxRoot(t *testing.T) {
	t.Run("default under data dir", func(t *testing.T) {
		t.Setenv(DlxDirEnv, "")
		root, err := GetDlxRoot()
		require.NoError(t, err)

		dataDir, err := GetDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dataDir, "_dlx"), root)
	})

	t.Run("env override wins", func(t *testing.T) {
		t.Setenv(DlxDirEnv, "/custom/dlx")
		root, err := GetDlxRoot()
		require.NoError(t, err)
		assert.Equal(t, "/custom/dlx", root)
	})
}

func TestDataDirPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	require.NoError(t, err)
	assert.Equal(t, ".dlxr", filepath.Base(dataDir))

	manifestPath, err := GetManifestPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "manifest.json"), manifestPath)

	configPath, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yaml"), configPath)
}

func TestMove(t *testing.T) {
	t.Run("empty paths", func(t *testing.T) {
		assert.ErrorIs(t, Move("", "/tmp/x"), pkgerrors.ErrEmptyPaths)
		assert.ErrorIs(t, Move("/tmp/x", ""), pkgerrors.ErrEmptyPaths)
	})

	t.Run("same filesystem rename", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		dst := filepath.Join(dir, "nested", "dst")
		require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

		require.NoError(t, Move(src, dst))

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		_, err = os.Stat(src)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("overwrites existing destination", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		dst := filepath.Join(dir, "dst")
		require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
		require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

		require.NoError(t, Move(src, dst))
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("missing source", func(t *testing.T) {
		dir := t.TempDir()
		assert.Error(t, Move(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")))
	})
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, Copy(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	// Source stays put.
	_, err = os.Stat(src)
	assert.NoError(t, err)

	assert.ErrorIs(t, Copy("", dst), pkgerrors.ErrEmptyPaths)
}
