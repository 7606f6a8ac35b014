// Package archive extracts downloaded package tarballs into
// package-install-style cache entries.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/dlxr-dev/dlxr/pkg/fsutil"
)

// npmTarballRoot is the single top-level directory npm-style tarballs nest
// their contents under.
const npmTarballRoot = "package"

// Extractor handles archive extraction operations.
type Extractor struct{}

// NewExtractor creates a new Extractor instance.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractAll extracts all files from an archive to the destination directory.
func (e *Extractor) ExtractAll(ctx context.Context, archivePath, destDir string) error {
	return e.extract(ctx, archivePath, destDir, false)
}

// ExtractPackage extracts an npm-style tarball to the destination directory,
// stripping the leading package/ component so the destination becomes the
// module root.
func (e *Extractor) ExtractPackage(ctx context.Context, archivePath, destDir string) error {
	return e.extract(ctx, archivePath, destDir, true)
}

func (e *Extractor) extract(ctx context.Context, archivePath, destDir string, stripPackageRoot bool) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return e.extractEntry(fsys, path, destDir, d, stripPackageRoot)
	})
}

// extractEntry processes a single archive entry and writes it to destDir.
func (e *Extractor) extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry, stripPackageRoot bool) error {
	if path == "." {
		return nil
	}

	rel := path
	if stripPackageRoot {
		if rel == npmTarballRoot {
			return nil
		}
		rel = strings.TrimPrefix(rel, npmTarballRoot+"/")
	}
	targetPath := filepath.Join(destDir, filepath.FromSlash(rel))

	if d.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}

	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return e.writeSymlink(fsys, path, targetPath)
	}
	return e.writeRegularFile(fsys, path, targetPath, info)
}

// writeSymlink creates a symlink at targetPath with contents from the archive entry at path.
func (e *Extractor) writeSymlink(fsys fs.FS, path, targetPath string) error {
	linkTarget, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read symlink %s: %w", path, err)
	}
	defer func() { _ = linkTarget.Close() }()

	targetBytes, err := io.ReadAll(linkTarget)
	if err != nil {
		return fmt.Errorf("failed to read symlink target %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", path, err)
	}
	_ = os.Remove(targetPath)

	return os.Symlink(string(targetBytes), targetPath)
}

// writeRegularFile writes a regular file from the archive entry to targetPath.
func (e *Extractor) writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	mode := info.Mode().Perm()
	if mode == 0 {
		mode = fsutil.FileModeDefault
	}
	dstFile, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy file %s to %s: %w", path, targetPath, err)
	}
	return dstFile.Close()
}
