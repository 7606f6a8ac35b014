package dlx

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dlxr-dev/dlxr/internal/logger"
	"github.com/dlxr-dev/dlxr/pkg/cachekey"
	pkgerrors "github.com/dlxr-dev/dlxr/pkg/errors"
)

// Entry summarizes one dlx cache entry on disk.
type Entry struct {
	CacheKey  string
	Name      string
	URL       string
	Checksum  string
	Platform  string
	Arch      string
	Size      int64
	Timestamp time.Time
	Path      string
}

// List enumerates cache entries under the dlx root. Non-directories and
// entries whose artifact is missing are skipped; unreadable or malformed
// metadata degrades to defaults rather than excluding the entry.
func (m *Manager) List() ([]Entry, error) {
	dirs, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to read dlx root %s", m.root)
	}

	var entries []Entry
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		entryDir := filepath.Join(m.root, dir.Name())

		md, ok := readMetadata(entryDir)
		if !ok {
			md = &Metadata{}
		}
		if md.Platform == "" {
			md.Platform = "unknown"
		}

		name := md.Name
		if name == "" {
			name = dir.Name()
		}
		artifact := filepath.Join(entryDir, name)
		st, err := os.Stat(artifact)
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			CacheKey:  dir.Name(),
			Name:      name,
			URL:       md.URL,
			Checksum:  md.Checksum,
			Platform:  md.Platform,
			Arch:      md.Arch,
			Size:      st.Size(),
			Timestamp: time.UnixMilli(md.Timestamp),
			Path:      artifact,
		})
	}
	return entries, nil
}

// Clean deletes entries older than maxAge, DefaultCacheTTL when maxAge is
// zero. Entries without a usable timestamp are treated as infinitely old. A
// failure on one entry is logged and the sweep continues; Clean returns the
// number of entries removed.
func (m *Manager) Clean(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultCacheTTL
	}

	dirs, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, pkgerrors.Wrapf(err, "failed to read dlx root %s", m.root)
	}

	removed := 0
	cutoff := time.Now().UnixMilli() - maxAge.Milliseconds()
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		entryDir := filepath.Join(m.root, dir.Name())

		timestamp := int64(0) // no timestamp means infinitely old
		if md, ok := readMetadata(entryDir); ok {
			timestamp = md.Timestamp
		}
		if timestamp > cutoff {
			continue
		}

		if err := os.RemoveAll(entryDir); err != nil {
			logger.Warn("failed to remove dlx cache entry", logger.Fields{
				"entry": entryDir,
				"error": err.Error(),
			})
			continue
		}
		removed++
	}
	return removed, nil
}

// Remove evicts the entry for a url/name spec. Removing an absent entry is
// not an error.
func (m *Manager) Remove(url, name string) error {
	if name == "" {
		name = deriveName(url)
	}
	key := cachekey.ForDownload(url, name)
	if err := os.RemoveAll(filepath.Join(m.root, key)); err != nil {
		return pkgerrors.Wrapf(err, "failed to remove dlx cache entry %s", key)
	}
	return m.store.Clear(specFor(url, name))
}

// RemovePackage evicts a package-install-style entry by name.
func (m *Manager) RemovePackage(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(m.root, name)); err != nil {
		return pkgerrors.Wrapf(err, "failed to remove dlx package %s", name)
	}
	return m.store.Clear(name)
}

// ClearAll deletes the entire dlx cache directory and recreates it empty.
func (m *Manager) ClearAll() error {
	if m.root == "" {
		return pkgerrors.ErrCacheDirEmpty
	}
	if err := os.RemoveAll(m.root); err != nil {
		return pkgerrors.Wrapf(err, "failed to clear dlx cache %s", m.root)
	}
	return m.ensureRoot()
}
