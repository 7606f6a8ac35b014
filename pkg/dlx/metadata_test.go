package dlx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Metadata{
		URL:       "https://example.com/tool",
		Name:      "tool",
		Checksum:  "deadbeef",
		Timestamp: time.Now().UnixMilli(),
		Platform:  "linux",
		Arch:      "amd64",
	}
	require.NoError(t, writeMetadata(dir, want))

	got, ok := readMetadata(dir)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Less(t, got.Age(), time.Minute)
}

func TestReadMetadata_Unusable(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{not json at all`},
		{"array payload", `[]`},
		{"string payload", `"hello"`},
		{"number payload", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFilename), []byte(tt.content), 0o644))

			_, ok := readMetadata(dir)
			assert.False(t, ok)
		})
	}
}

func TestReadMetadata_Absent(t *testing.T) {
	_, ok := readMetadata(t.TempDir())
	assert.False(t, ok)
}

func TestReadMetadata_PartialObject(t *testing.T) {
	// A parsable object with fields missing is usable; freshness decisions
	// happen at the caller.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFilename),
		[]byte(`{"url":"https://example.com/tool"}`), 0o644))

	md, ok := readMetadata(dir)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/tool", md.URL)
	assert.Empty(t, md.Checksum)
	assert.Zero(t, md.Timestamp)
}
