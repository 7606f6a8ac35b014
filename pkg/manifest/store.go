package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dlxr-dev/dlxr/internal/logger"
	"github.com/dlxr-dev/dlxr/pkg/errors"
	"github.com/dlxr-dev/dlxr/pkg/fsutil"
)

// Store is a file-backed manifest. Reads tolerate a missing, empty, or
// corrupt file by treating it as empty; writes create missing parent
// directories and persist atomically via a temp file rename.
//
// The store serializes access within a single process. Concurrent processes
// writing the same manifest can still lose updates; callers that need
// multi-process safety must layer their own locking on top.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a manifest store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultStore creates a store at the standard manifest location.
func DefaultStore() (*Store, error) {
	path, err := fsutil.GetManifestPath()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine manifest path")
	}
	return New(path), nil
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// GetEntry returns the current-format entry for spec, or nil when the spec is
// absent, holds a legacy record, or the file is missing or unreadable.
func (s *Store) GetEntry(spec string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.load()[spec]
	if !ok {
		return nil
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Type == "" {
		return nil
	}
	return &entry
}

// SetPackageEntry upserts a package entry for spec, overwriting any prior
// record wholesale.
func (s *Store) SetPackageEntry(spec, cacheKey string, details PackageDetails) error {
	return s.setEntry(spec, Entry{
		Type:      TypePackage,
		CacheKey:  cacheKey,
		Timestamp: time.Now().UnixMilli(),
		Package:   &details,
	})
}

// SetBinaryEntry upserts a binary entry for spec, overwriting any prior
// record wholesale.
func (s *Store) SetBinaryEntry(spec, cacheKey string, details BinaryDetails) error {
	return s.setEntry(spec, Entry{
		Type:      TypeBinary,
		CacheKey:  cacheKey,
		Timestamp: time.Now().UnixMilli(),
		Binary:    &details,
	})
}

func (s *Store) setEntry(spec string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	raw, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "failed to encode manifest entry")
	}
	records[spec] = raw
	return s.save(records)
}

// Get returns the legacy record for spec, or nil when the spec is absent,
// holds a current-format entry, or the file is missing or unreadable.
func (s *Store) Get(spec string) *LegacyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.load()[spec]
	if !ok {
		return nil
	}
	// A record carrying a type discriminator belongs to the new namespace.
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Type != "" {
		return nil
	}
	var rec LegacyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil
	}
	return &rec
}

// Set upserts a legacy record for spec.
func (s *Store) Set(spec string, rec LegacyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "failed to encode manifest record")
	}
	records[spec] = raw
	return s.save(records)
}

// Clear removes the record for spec. Clearing an absent spec or a missing
// file is not an error.
func (s *Store) Clear(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	if _, ok := records[spec]; !ok {
		return nil
	}
	delete(records, spec)
	return s.save(records)
}

// ClearAll deletes the manifest file entirely. A missing file is not an
// error.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove manifest %s", s.path)
	}
	return nil
}

// AllSpecs returns the union of legacy and current-format spec keys, sorted.
// A missing or corrupt file yields an empty slice.
func (s *Store) AllSpecs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	specs := make([]string, 0, len(records))
	for spec := range records {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	return specs
}

// load reads the manifest file into a raw record map. Any read or parse
// failure degrades to an empty manifest; corruption is a debug signal, never
// an error.
func (s *Store) load() map[string]json.RawMessage {
	records := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil || records == nil {
		// records comes back nil for the valid JSON "null"; writing into
		// it would panic, so it counts as corruption like any parse error.
		logger.Debug("ignoring unparsable manifest", logger.Fields{"path": s.path})
		return make(map[string]json.RawMessage)
	}
	return records
}

// save writes the record map atomically. Unlike reads, write failures are
// surfaced to the caller.
func (s *Store) save(records map[string]json.RawMessage) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create manifest directory %s", dir)
	}

	tmpFile, err := os.CreateTemp(dir, "manifest-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		_ = tmpFile.Close()
		return errors.Wrap(err, "failed to encode manifest")
	}
	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return errors.Wrap(err, "failed to write manifest")
	}
	if err = tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close manifest")
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return errors.Wrapf(err, "failed to replace manifest %s", s.path)
	}
	return nil
}
