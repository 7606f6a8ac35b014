// Package classify decides whether a resolved artifact should be launched as
// a Node package entry point or as a native binary.
package classify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dlxr-dev/dlxr/internal/logger"
)

// Type tags how an artifact should be invoked.
type Type string

// Artifact types.
const (
	TypePackage Type = "package"
	TypeBinary  Type = "binary"
)

// Method records which heuristic produced the classification.
type Method string

// Classification methods, strongest evidence first.
const (
	MethodDlxCache      Method = "dlx-cache"
	MethodPackageJSON   Method = "package-json"
	MethodFileExtension Method = "file-extension"
)

// Result is the outcome of a classification.
type Result struct {
	Type            Type
	Method          Method
	InDlxCache      bool
	PackageJSONPath string
}

// Detector classifies artifacts. Paths inside the dlx cache root carry
// reliable structural evidence (a node_modules sibling); arbitrary local
// paths fall back to cheaper filesystem heuristics.
type Detector struct {
	dlxRoot string
}

// NewDetector creates a detector for the given dlx cache root.
func NewDetector(dlxRoot string) *Detector {
	return &Detector{dlxRoot: filepath.Clean(dlxRoot)}
}

// nodeExtensions are the file extensions treated as Node entry points.
var nodeExtensions = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
}

// Detect classifies the artifact at path.
func (d *Detector) Detect(path string) Result {
	if d.inDlxCache(path) {
		// Inside the cache, entry layout is under our control: a
		// node_modules sibling marks a package-install-style entry.
		result := Result{Method: MethodDlxCache, InDlxCache: true, Type: TypeBinary}
		if st, err := os.Stat(filepath.Join(filepath.Dir(path), "node_modules")); err == nil && st.IsDir() {
			result.Type = TypePackage
		}
		return result
	}

	if pkgJSONPath, ok := findPackageJSONWithBin(filepath.Dir(path)); ok {
		return Result{
			Type:            TypePackage,
			Method:          MethodPackageJSON,
			PackageJSONPath: pkgJSONPath,
		}
	}

	result := Result{Method: MethodFileExtension, Type: TypeBinary}
	if nodeExtensions[strings.ToLower(filepath.Ext(path))] {
		result.Type = TypePackage
	}
	return result
}

func (d *Detector) inDlxCache(path string) bool {
	if d.dlxRoot == "" {
		return false
	}
	rel, err := filepath.Rel(d.dlxRoot, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// findPackageJSONWithBin walks upward from dir looking for the nearest
// package.json declaring a non-empty bin field. Malformed files along the
// way are skipped, not fatal.
func findPackageJSONWithBin(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, "package.json")
		if data, err := os.ReadFile(candidate); err == nil {
			if hasBinField(data) {
				return candidate, true
			}
			if !json.Valid(data) {
				logger.Debug("skipping malformed package.json", logger.Fields{"path": candidate})
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// hasBinField reports whether the package.json bytes declare a non-empty bin
// field. bin may be a string or an object of command names.
func hasBinField(data []byte) bool {
	var pkg struct {
		Bin json.RawMessage `json:"bin"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil || len(pkg.Bin) == 0 {
		return false
	}

	var binStr string
	if err := json.Unmarshal(pkg.Bin, &binStr); err == nil {
		return binStr != ""
	}
	var binMap map[string]string
	if err := json.Unmarshal(pkg.Bin, &binMap); err == nil {
		return len(binMap) > 0
	}
	return false
}
