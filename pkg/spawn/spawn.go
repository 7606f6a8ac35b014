// Package spawn starts resolved artifacts with the caller's arguments,
// applying platform-specific shell requirements.
package spawn

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	pkgerrors "github.com/dlxr-dev/dlxr/pkg/errors"
	"github.com/dlxr-dev/dlxr/pkg/platform"
)

// Options control how a process is started. Zero-value streams inherit the
// parent's stdio.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
	Dir    string

	// AsNodePackage launches the artifact through the node runtime
	// instead of executing it directly.
	AsNodePackage bool
}

// Process is a handle to a started child. The child is independent of the
// cache logic's lifecycle; callers must Wait or detach explicitly.
type Process struct {
	cmd *exec.Cmd
}

// Wait blocks until the child exits and returns its exit error, if any.
func (p *Process) Wait() error {
	return p.cmd.Wait()
}

// Pid returns the child's process ID.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// ExitCode returns the exit code after Wait has returned, or -1 when the
// child has not exited.
func (p *Process) ExitCode() int {
	if p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

// Start launches binPath with args. On Windows, .cmd/.bat/.ps1 artifacts
// need shell-mediated execution; elsewhere a direct exec-style spawn is
// used. Start returns once the child is running, not when it exits.
func Start(ctx context.Context, binPath string, args []string, opts Options) (*Process, error) {
	cmd := buildCommand(ctx, binPath, args, opts)

	cmd.Stdin = opts.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Env = opts.Env
	cmd.Dir = opts.Dir

	if err := cmd.Start(); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to spawn %s", binPath)
	}
	return &Process{cmd: cmd}, nil
}

func buildCommand(ctx context.Context, binPath string, args []string, opts Options) *exec.Cmd {
	if opts.AsNodePackage {
		return exec.CommandContext(ctx, "node", append([]string{binPath}, args...)...)
	}

	if platform.IsWindows() {
		switch strings.ToLower(filepath.Ext(binPath)) {
		case ".cmd", ".bat":
			return exec.CommandContext(ctx, "cmd.exe", append([]string{"/d", "/s", "/c", binPath}, args...)...)
		case ".ps1":
			return exec.CommandContext(ctx, "powershell.exe",
				append([]string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-File", binPath}, args...)...)
		}
	}
	return exec.CommandContext(ctx, binPath, args...)
}
