// Package dlx orchestrates download-and-execute runs: cache-hit decisions,
// checksum-verified fetches, metadata persistence, and spawning the cached
// artifact.
package dlx

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dlxr-dev/dlxr/internal/logger"
	"github.com/dlxr-dev/dlxr/pkg/cachekey"
	"github.com/dlxr-dev/dlxr/pkg/classify"
	"github.com/dlxr-dev/dlxr/pkg/download"
	pkgerrors "github.com/dlxr-dev/dlxr/pkg/errors"
	"github.com/dlxr-dev/dlxr/pkg/fsutil"
	"github.com/dlxr-dev/dlxr/pkg/hook"
	"github.com/dlxr-dev/dlxr/pkg/manifest"
	"github.com/dlxr-dev/dlxr/pkg/platform"
	"github.com/dlxr-dev/dlxr/pkg/spawn"
)

// Manager coordinates the dlx cache. Miss handling is serialized per cache
// key within the process, so two concurrent runs for the same spec perform
// exactly one download.
type Manager struct {
	root     string
	store    *manifest.Store
	dl       download.Manager
	hooks    hook.Manager
	detector *classify.Detector
	platform platform.Platform

	mu    sync.Mutex
	locks map[string]*keyLock
}

// keyLock is a per-cache-key mutex with a holder count so the lock map can
// shed entries once nobody is waiting on them.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a dlx manager rooted at root. hooks may be nil when no
// policy scripts are configured.
func NewManager(root string, store *manifest.Store, dl download.Manager, hooks hook.Manager) *Manager {
	return &Manager{
		root:     root,
		store:    store,
		dl:       dl,
		hooks:    hooks,
		detector: classify.NewDetector(root),
		platform: platform.Current(),
		locks:    make(map[string]*keyLock),
	}
}

// Root returns the dlx cache root directory.
func (m *Manager) Root() string {
	return m.root
}

// Detector returns the classifier bound to this cache root.
func (m *Manager) Detector() *classify.Detector {
	return m.detector
}

// RunOptions control a single dlx binary run.
type RunOptions struct {
	URL      string        // source URL, required
	Name     string        // artifact filename; derived from the URL when empty
	Checksum string        // optional hex SHA-256, verified on download
	Force    bool          // redownload even on a cache hit
	CacheTTL time.Duration // entry max age; DefaultCacheTTL when zero
	Spawn    spawn.Options
}

// RunResult reports the outcome of a run. The spawned process has not
// necessarily exited when RunBinary returns; callers await Process.Wait.
type RunResult struct {
	BinaryPath string
	Downloaded bool
	Process    *spawn.Process
}

// RunBinary fetches (or reuses) the binary behind opts.URL and spawns it
// with args.
func (m *Manager) RunBinary(ctx context.Context, args []string, opts RunOptions) (*RunResult, error) {
	binPath, downloaded, err := m.ensureBinary(ctx, opts)
	if err != nil {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = deriveName(opts.URL)
	}
	if err := m.runHook(hook.PreSpawn, hook.Context{
		Spec:       specFor(opts.URL, name),
		Name:       name,
		URL:        opts.URL,
		BinaryPath: binPath,
		CacheKey:   cachekey.ForDownload(opts.URL, name),
	}); err != nil {
		return nil, err
	}

	detected := m.detector.Detect(binPath)
	spawnOpts := opts.Spawn
	spawnOpts.AsNodePackage = detected.Type == classify.TypePackage

	proc, err := spawn.Start(ctx, binPath, args, spawnOpts)
	if err != nil {
		return nil, err
	}
	return &RunResult{BinaryPath: binPath, Downloaded: downloaded, Process: proc}, nil
}

// FetchBinary performs the cache/download part of a run without spawning.
func (m *Manager) FetchBinary(ctx context.Context, opts RunOptions) (string, bool, error) {
	return m.ensureBinary(ctx, opts)
}

func (m *Manager) ensureBinary(ctx context.Context, opts RunOptions) (string, bool, error) {
	if opts.URL == "" {
		return "", false, fmt.Errorf("url is required: %w", pkgerrors.ErrValidation)
	}
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return "", false, pkgerrors.Wrapf(err, "invalid url %s", opts.URL)
	}

	name := opts.Name
	if name == "" {
		name = deriveName(opts.URL)
	}
	if err := validateName(name); err != nil {
		return "", false, err
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	key := cachekey.ForDownload(opts.URL, name)
	spec := specFor(opts.URL, name)
	entryDir := filepath.Join(m.root, key)
	binPath := filepath.Join(entryDir, name)

	unlock := m.lockKey(key)
	defer unlock()

	if !opts.Force && isCacheHit(binPath, entryDir, ttl) {
		logger.Debug("dlx cache hit", logger.Fields{"spec": spec, "key": key})
		return binPath, false, nil
	}

	if err := m.runHook(hook.PreDownload, hook.Context{
		Spec:     spec,
		Name:     name,
		URL:      opts.URL,
		CacheKey: key,
	}); err != nil {
		return "", false, err
	}

	// Stale or corrupt entries are replaced wholesale, never patched.
	_ = os.Remove(binPath)

	if _, err := m.dl.Fetch(ctx, download.Item{
		ID:       key,
		URL:      parsed,
		Checksum: opts.Checksum,
		Filename: name,
	}, download.Options{Dir: entryDir}); err != nil {
		return "", false, err
	}

	checksum := opts.Checksum
	if checksum == "" {
		if checksum, err = download.ChecksumFile(binPath); err != nil {
			return "", false, err
		}
	}
	st, err := os.Stat(binPath)
	if err != nil {
		return "", false, pkgerrors.Wrapf(err, "downloaded artifact missing at %s", binPath)
	}

	if err := writeMetadata(entryDir, &Metadata{
		URL:       opts.URL,
		Name:      name,
		Checksum:  checksum,
		Timestamp: time.Now().UnixMilli(),
		Platform:  m.platform.OS,
		Arch:      m.platform.Arch,
	}); err != nil {
		return "", false, err
	}

	if err := m.store.SetBinaryEntry(spec, key, manifest.BinaryDetails{
		Checksum:          checksum,
		ChecksumAlgorithm: ChecksumAlgorithm,
		Platform:          m.platform.OS,
		Arch:              m.platform.Arch,
		Size:              st.Size(),
		Source:            manifest.SourceInfo{Type: "download", URL: opts.URL},
	}); err != nil {
		return "", false, err
	}

	logger.Debug("dlx cache filled", logger.Fields{"spec": spec, "key": key, "size": st.Size()})
	return binPath, true, nil
}

// isCacheHit reports whether the entry can be trusted without a download:
// the artifact exists and the sidecar metadata is a parsable object carrying
// a checksum and a timestamp younger than ttl.
func isCacheHit(binPath, entryDir string, ttl time.Duration) bool {
	if _, err := os.Stat(binPath); err != nil {
		return false
	}
	md, ok := readMetadata(entryDir)
	if !ok || md.Checksum == "" {
		return false
	}
	return md.Age() < ttl
}

// lockKey serializes miss handling for a cache key within this process. The
// returned release func drops the map entry once the last holder is gone, so
// the lock map stays proportional to in-flight keys, not to keys ever seen.
func (m *Manager) lockKey(key string) func() {
	m.mu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &keyLock{}
		m.locks[key] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		m.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) runHook(hookType hook.Type, ctx hook.Context) error {
	if m.hooks == nil {
		return nil
	}
	return m.hooks.Execute(hookType, ctx)
}

// deriveName picks an artifact filename from the URL path, defaulting to
// "binary" when the path carries no usable base name.
func deriveName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "binary"
	}
	base := path.Base(parsed.Path)
	if base == "" || base == "." || base == ".." || base == "/" {
		return "binary"
	}
	return base
}

// validateName rejects names that would escape their cache directory when
// joined onto it. A valid name is a single path element.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid name %q: %w", name, pkgerrors.ErrValidation)
	}
	return nil
}

func specFor(url, name string) string {
	return url + ":" + name
}

// ensureRoot creates the cache root if needed.
func (m *Manager) ensureRoot() error {
	return os.MkdirAll(m.root, fsutil.DirModeDefault)
}
