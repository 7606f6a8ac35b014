package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths.
	AppName = "dlxr"

	// DlxDirEnv overrides the dlx cache root, mainly for test and CI
	// isolation.
	DlxDirEnv = "DLXR_DLX_DIR"

	// dlxDirName is the directory under the app data dir holding dlx cache
	// entries. The leading underscore keeps it sorted away from
	// package-install directories.
	dlxDirName = "_dlx"
)

// GetDataDir returns the application data directory, ~/.dlxr by default.
func GetDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName), nil
}

// GetDlxRoot returns the root directory for dlx cache entries.
// The DLXR_DLX_DIR environment variable takes precedence over the default
// <data_dir>/_dlx location.
func GetDlxRoot() (string, error) {
	if dir := os.Getenv(DlxDirEnv); dir != "" {
		return dir, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, dlxDirName), nil
}

// GetManifestPath returns the path of the manifest file recording dlx cache
// entries. The manifest lives next to, not inside, the dlx root so that
// clearing the cache directory does not destroy it.
func GetManifestPath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "manifest.json"), nil
}

// GetConfigPath returns the default config file path.
func GetConfigPath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.yaml"), nil
}
