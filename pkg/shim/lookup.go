package shim

import (
	"os"
	"os/exec"
	"path/filepath"

	pkgerrors "github.com/dlxr-dev/dlxr/pkg/errors"
)

// ResolveCommand locates the real artifact behind a command. The input may
// be an existing path (absolute or relative) or a bare binary name to look
// up on PATH. A name that is neither resolves to ErrBinaryNotFound.
func (r *Resolver) ResolveCommand(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", pkgerrors.Wrap(pkgerrors.ErrBinaryNotFound, "empty command")
	}

	binPath := nameOrPath
	if _, err := os.Stat(binPath); err != nil {
		if filepath.Base(nameOrPath) != nameOrPath {
			// A path that does not exist cannot be a PATH lookup.
			return "", pkgerrors.Wrapf(pkgerrors.ErrBinaryNotFound, "%s", nameOrPath)
		}
		found, err := exec.LookPath(nameOrPath)
		if err != nil {
			return "", pkgerrors.Wrapf(pkgerrors.ErrBinaryNotFound, "%s", nameOrPath)
		}
		binPath = found
	}

	if abs, err := filepath.Abs(binPath); err == nil {
		binPath = abs
	}
	return r.Resolve(binPath), nil
}
