package shim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// voltaPlatform mirrors the active-toolchain manifest Volta keeps at
// tools/user/platform.json.
type voltaPlatform struct {
	Node struct {
		Runtime string `json:"runtime"`
		NPM     string `json:"npm"`
	} `json:"node"`
	Yarn string `json:"yarn"`
	PNPM string `json:"pnpm"`
}

// voltaBinManifest mirrors the per-binary manifest Volta keeps at
// tools/user/bins/<tool>.json for package-installed tools.
type voltaBinManifest struct {
	Package string `json:"package"`
	Version string `json:"version"`
}

// resolveVolta redirects a Volta shim to the versioned artifact inside
// Volta's image store. It returns ok=false when binPath is not
// Volta-managed or the computed target does not exist, in which case the
// caller falls through with the unresolved input.
func (r *Resolver) resolveVolta(binPath string) (string, bool) {
	voltaHome := r.voltaHomeFor(binPath)
	if voltaHome == "" {
		return "", false
	}

	tool := filepath.Base(binPath)
	tool = strings.TrimSuffix(tool, filepath.Ext(tool))
	if tool == "node" {
		// The node shim points at the runtime itself; there is no
		// deeper artifact to unwind to.
		return "", false
	}

	platform := readVoltaPlatform(voltaHome)
	imageDir := filepath.Join(voltaHome, "tools", "image")

	var target string
	switch tool {
	case "npm", "npx":
		target = voltaNpmTarget(imageDir, platform, tool)
	case "yarn":
		target = voltaToolTarget(imageDir, "yarn", platform.Yarn, filepath.Join("bin", "yarn.js"))
	case "pnpm":
		target = voltaToolTarget(imageDir, "pnpm", platform.PNPM, filepath.Join("bin", "pnpm.cjs"))
	default:
		target = voltaPackageTarget(voltaHome, imageDir, tool)
	}

	if target == "" {
		return "", false
	}
	if _, err := os.Stat(target); err != nil {
		return "", false
	}
	return target, true
}

// voltaHomeFor returns the Volta home directory containing binPath, or ""
// when the path has no .volta segment.
func (r *Resolver) voltaHomeFor(binPath string) string {
	if r.voltaHome != "" {
		if strings.HasPrefix(binPath, r.voltaHome+string(filepath.Separator)) {
			return r.voltaHome
		}
		return ""
	}

	sep := string(filepath.Separator)
	parts := strings.Split(filepath.Clean(binPath), sep)
	for i, part := range parts {
		if part == ".volta" {
			return strings.Join(parts[:i+1], sep)
		}
	}
	return ""
}

func readVoltaPlatform(voltaHome string) voltaPlatform {
	var platform voltaPlatform
	data, err := os.ReadFile(filepath.Join(voltaHome, "tools", "user", "platform.json"))
	if err != nil {
		return platform
	}
	// A malformed manifest degrades to version discovery from the image
	// store.
	_ = json.Unmarshal(data, &platform)
	return platform
}

// voltaNpmTarget locates the npm or npx CLI entry point. A pinned npm gets
// its own image directory; otherwise the copy bundled with the pinned node
// runtime is used.
func voltaNpmTarget(imageDir string, platform voltaPlatform, tool string) string {
	cli := tool + "-cli.js"

	if v := pickVersion(filepath.Join(imageDir, "npm"), platform.Node.NPM); v != "" {
		return filepath.Join(imageDir, "npm", v, "bin", cli)
	}
	if v := pickVersion(filepath.Join(imageDir, "node"), platform.Node.Runtime); v != "" {
		return filepath.Join(imageDir, "node", v, "lib", "node_modules", "npm", "bin", cli)
	}
	return ""
}

func voltaToolTarget(imageDir, tool, pinned, entry string) string {
	v := pickVersion(filepath.Join(imageDir, tool), pinned)
	if v == "" {
		return ""
	}
	return filepath.Join(imageDir, tool, v, entry)
}

// voltaPackageTarget resolves a package-installed tool through its
// per-binary manifest.
func voltaPackageTarget(voltaHome, imageDir, tool string) string {
	data, err := os.ReadFile(filepath.Join(voltaHome, "tools", "user", "bins", tool+".json"))
	if err != nil {
		return ""
	}
	var bin voltaBinManifest
	if err := json.Unmarshal(data, &bin); err != nil || bin.Package == "" {
		return ""
	}
	return filepath.Join(imageDir, "packages", bin.Package, "bin", tool)
}

// pickVersion returns the pinned version when its image directory exists,
// otherwise the highest installed version under dir. Ordering uses semantic
// version comparison so "10.1.0" ranks above "9.9.9".
func pickVersion(dir, pinned string) string {
	if pinned != "" {
		if _, err := os.Stat(filepath.Join(dir, pinned)); err == nil {
			return pinned
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var versions []*goversion.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if v, err := goversion.NewVersion(e.Name()); err == nil {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return ""
	}
	sort.Sort(goversion.Collection(versions))
	return versions[len(versions)-1].Original()
}
