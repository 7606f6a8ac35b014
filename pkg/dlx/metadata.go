package dlx

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/dlxr-dev/dlxr/internal/logger"
	"github.com/dlxr-dev/dlxr/pkg/errors"
	"github.com/dlxr-dev/dlxr/pkg/fsutil"
)

// Metadata is the sidecar record written next to each cached artifact.
// Timestamp is epoch milliseconds.
type Metadata struct {
	URL       string `json:"url"`
	Name      string `json:"name"`
	Checksum  string `json:"checksum"`
	Timestamp int64  `json:"timestamp"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// Age returns how old the metadata record is.
func (md *Metadata) Age() time.Duration {
	return time.Duration(time.Now().UnixMilli()-md.Timestamp) * time.Millisecond
}

// readMetadata loads the sidecar file of a cache entry directory. It returns
// ok=false when the file is absent, unparsable, or not a JSON object; an
// entry with unusable metadata is treated as absent, never as an error.
func readMetadata(entryDir string) (*Metadata, bool) {
	path := filepath.Join(entryDir, MetadataFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	// Reject non-object payloads (arrays, strings, numbers) before
	// decoding into the struct: unmarshaling "[]" into a struct is an
	// error, but unmarshaling "5" into interface{} first keeps the check
	// uniform.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		logger.Debug("ignoring unusable dlx metadata", logger.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return nil, false
	}

	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, false
	}
	return &md, true
}

// writeMetadata persists the sidecar file for a cache entry. Metadata is
// written after the artifact so a crash in between leaves a miss, not a
// trusted half-entry.
func writeMetadata(entryDir string, md *Metadata) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode dlx metadata")
	}
	path := filepath.Join(entryDir, MetadataFilename)
	if err := os.WriteFile(path, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrapf(err, "failed to write dlx metadata %s", path)
	}
	return nil
}
