package dlx

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dlxr-dev/dlxr/internal/logger"
	"github.com/dlxr-dev/dlxr/pkg/archive"
	"github.com/dlxr-dev/dlxr/pkg/cachekey"
	"github.com/dlxr-dev/dlxr/pkg/download"
	pkgerrors "github.com/dlxr-dev/dlxr/pkg/errors"
	"github.com/dlxr-dev/dlxr/pkg/hook"
	"github.com/dlxr-dev/dlxr/pkg/manifest"
)

// PackageOptions control a package-style install.
type PackageOptions struct {
	Version  string        // recorded in the manifest entry
	Checksum string        // optional hex SHA-256 of the tarball
	Force    bool          // reinstall even when fresh
	CacheTTL time.Duration // entry max age; DefaultCacheTTL when zero
}

// InstallPackage downloads an npm-style tarball and extracts it into a
// package-install-style cache entry at <root>/<name>/node_modules/<name>.
// It returns the module root directory. Unlike URL-keyed binary entries,
// package entries are keyed by package name.
func (m *Manager) InstallPackage(ctx context.Context, name, tarballURL string, opts PackageOptions) (string, error) {
	if name == "" {
		return "", fmt.Errorf("package name is required: %w", pkgerrors.ErrValidation)
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	parsed, err := url.Parse(tarballURL)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "invalid url %s", tarballURL)
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	pkgDir := filepath.Join(m.root, name)
	moduleDir := filepath.Join(pkgDir, "node_modules", name)

	unlock := m.lockKey(name)
	defer unlock()

	if !opts.Force && m.isPackageFresh(name, moduleDir, ttl) {
		logger.Debug("dlx package hit", logger.Fields{"name": name})
		return moduleDir, nil
	}

	if err := m.runHook(hook.PreDownload, hook.Context{
		Spec:     name,
		Name:     name,
		URL:      tarballURL,
		CacheKey: cachekey.ForSpec(name),
	}); err != nil {
		return "", err
	}

	// Download the tarball into a staging dir so a failed extract never
	// leaves a plausible-looking install behind.
	stagingDir, err := os.MkdirTemp("", "dlxr-pkg-*")
	if err != nil {
		return "", pkgerrors.Wrap(err, "could not create staging dir")
	}
	defer func() { _ = os.RemoveAll(stagingDir) }()

	tarball, err := m.dl.Fetch(ctx, download.Item{
		ID:       name,
		URL:      parsed,
		Checksum: opts.Checksum,
		Filename: name + ".tgz",
	}, download.Options{Dir: stagingDir})
	if err != nil {
		return "", err
	}

	if err := os.RemoveAll(moduleDir); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to replace package dir %s", moduleDir)
	}
	if err := archive.NewExtractor().ExtractPackage(ctx, tarball, moduleDir); err != nil {
		return "", err
	}

	st, err := os.Stat(tarball)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to stat downloaded tarball")
	}
	if err := m.store.SetPackageEntry(name, cachekey.ForSpec(name), manifest.PackageDetails{
		InstalledVersion: opts.Version,
		Size:             st.Size(),
		UpdateCheck:      time.Now().UnixMilli(),
	}); err != nil {
		return "", err
	}

	logger.Debug("dlx package installed", logger.Fields{"name": name, "version": opts.Version})
	return moduleDir, nil
}

func (m *Manager) isPackageFresh(name, moduleDir string, ttl time.Duration) bool {
	if st, err := os.Stat(moduleDir); err != nil || !st.IsDir() {
		return false
	}
	entry := m.store.GetEntry(name)
	if entry == nil || entry.Type != manifest.TypePackage {
		return false
	}
	return time.Now().UnixMilli()-entry.Timestamp < ttl.Milliseconds()
}
