package shim

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dlxr-dev/dlxr/internal/logger"
)

// Resolver follows launcher indirection to the directly-executable artifact
// behind a path. Resolution never fails: when a wrapper cannot be read or no
// anchor pattern matches, the best-known path is returned unchanged.
type Resolver struct {
	// voltaHome overrides Volta home detection; used by tests.
	voltaHome string
}

// NewResolver creates a shim resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// windows-style wrapper dialect chains per extension. The env-var form is
// preferred because npm's own launchers carry a cmd-shim style line as a
// fallback branch that points at the wrong file.
var (
	cmdDialects        = []Dialect{DialectCmdEnvVar, DialectCmdShim}
	powerShellDialects = []Dialect{DialectPowerShell}
	posixDialects      = []Dialect{DialectPosixExec}
)

// Resolve reduces binPath to the real underlying artifact. The input may be
// absolute or PATH-resolved; the output is an absolute path when resolution
// succeeded, otherwise the input verbatim.
func (r *Resolver) Resolve(binPath string) string {
	if binPath == "" {
		return binPath
	}

	if target, ok := r.resolveVolta(binPath); ok {
		return normalize(target)
	}

	base := filepath.Base(binPath)
	ext := strings.ToLower(filepath.Ext(base))

	var dialects []Dialect
	switch ext {
	case ".cmd", ".bat":
		dialects = cmdDialects
	case ".ps1":
		dialects = powerShellDialects
	case "":
		dialects = posixDialects
		binPath = fixNestedPnpm(binPath)
	default:
		// Already a native executable (.exe and friends) or an
		// unrecognized wrapper kind.
		return binPath
	}

	src, err := os.ReadFile(binPath)
	if err != nil {
		// The path may not exist at all; resolution degrades to the
		// input rather than failing the lookup.
		logger.Debug("wrapper not readable, passing through", logger.Fields{
			"path":  binPath,
			"error": err.Error(),
		})
		return binPath
	}

	rel := extractFirst(string(src), dialects)
	if rel == "" {
		return binPath
	}

	target := filepath.Join(filepath.Dir(binPath), filepath.FromSlash(strings.ReplaceAll(rel, `\`, `/`)))
	return normalize(target)
}

// normalize cleans the path and attempts realpath resolution. A failed
// realpath (broken symlink, permission error) falls back to the cleaned
// path.
func normalize(path string) string {
	cleaned := filepath.Clean(path)
	resolved, err := filepath.EvalSymlinks(cleaned)
	if err != nil {
		return cleaned
	}
	return resolved
}

// fixNestedPnpm corrects the malformed layout produced by one CI setup
// action, which writes the pnpm entry point under .bin/pnpm/bin/ instead of
// making .bin/pnpm the wrapper itself. When the .bin/pnpm ancestor exists as
// a regular file, that file is the wrapper to parse.
func fixNestedPnpm(binPath string) string {
	sep := string(filepath.Separator)
	marker := sep + filepath.Join(".bin", "pnpm") + sep
	idx := strings.Index(binPath, marker)
	if idx < 0 {
		return binPath
	}

	ancestor := binPath[:idx+len(marker)-1]
	if st, err := os.Stat(ancestor); err == nil && st.Mode().IsRegular() {
		return ancestor
	}
	return binPath
}
