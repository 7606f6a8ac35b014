package dlx_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlxr-dev/dlxr/pkg/dlx"
)

func fetchTool(t *testing.T, env *testEnv, urlPath string) string {
	t.Helper()
	path, _, err := env.manager.FetchBinary(context.Background(), dlx.RunOptions{URL: env.srv.URL + urlPath})
	require.NoError(t, err)
	return path
}

func TestList(t *testing.T) {
	env := newTestEnv(t, nil)
	fetchTool(t, env, "/alpha")
	fetchTool(t, env, "/beta")

	// Clutter that List must skip: a stray file, a directory without an
	// artifact, and an entry whose artifact vanished.
	require.NoError(t, os.WriteFile(filepath.Join(env.root, "stray.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "no-artifact"), 0o755))
	orphan := fetchTool(t, env, "/gamma")
	require.NoError(t, os.Remove(orphan))

	// Corrupt metadata degrades to defaults instead of hiding the entry.
	corruptDir := filepath.Join(env.root, "corrupt-md")
	require.NoError(t, os.MkdirAll(corruptDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corruptDir, "corrupt-md"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corruptDir, ".dlx-metadata.json"), []byte("[]"), 0o644))

	entries, err := env.manager.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byName := map[string]dlx.Entry{}
	for _, e := range entries {
		byName[e.Name] = e
		assert.NotEmpty(t, e.CacheKey)
	}
	for _, name := range []string{"alpha", "beta"} {
		e, ok := byName[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, e.Checksum)
		assert.NotZero(t, e.Size)
		assert.WithinDuration(t, time.Now(), e.Timestamp, time.Minute)
	}
	degraded, ok := byName["corrupt-md"]
	require.True(t, ok)
	assert.Equal(t, "unknown", degraded.Platform)
	assert.Empty(t, degraded.Checksum)
	assert.Empty(t, degraded.URL)
}

func TestList_MissingRoot(t *testing.T) {
	env := newTestEnv(t, nil)
	entries, err := env.manager.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClean(t *testing.T) {
	env := newTestEnv(t, nil)
	fetchTool(t, env, "/fresh")
	fetchTool(t, env, "/old")
	env.rewriteTimestamp(t, env.srv.URL+"/old", "old", time.Now().Add(-48*time.Hour).UnixMilli())

	// An entry with no readable timestamp counts as infinitely old.
	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "broken-entry"), 0o755))

	removed, err := env.manager.Clean(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := env.manager.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].Name)
}

func TestClean_MissingRoot(t *testing.T) {
	env := newTestEnv(t, nil)
	removed, err := env.manager.Clean(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRemove(t *testing.T) {
	env := newTestEnv(t, nil)
	url := env.srv.URL + "/tool"
	path := fetchTool(t, env, "/tool")

	require.NoError(t, env.manager.Remove(url, ""))

	_, err := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, env.store.GetEntry(url+":tool"))

	// Removing again is a no-op.
	assert.NoError(t, env.manager.Remove(url, ""))
}

func TestClearAll(t *testing.T) {
	env := newTestEnv(t, nil)
	fetchTool(t, env, "/alpha")
	fetchTool(t, env, "/beta")

	require.NoError(t, env.manager.ClearAll())

	dirs, err := os.ReadDir(env.root)
	require.NoError(t, err)
	assert.Empty(t, dirs, "cache root is recreated empty")
}
