// Package platform provides OS and architecture detection and normalization
// used when recording cache metadata and building download asset names.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Known OS names.
const (
	OSWindows = "windows"
	OSDarwin  = "darwin"
	OSLinux   = "linux"
)

// Platform represents a target platform with OS and architecture.
type Platform struct {
	OS   string `yaml:"os" json:"os"`
	Arch string `yaml:"arch" json:"arch"`
}

// Current returns the running platform with normalized names.
func Current() Platform {
	goos := runtime.GOOS
	if goos == "" {
		goos = "unknown"
	}
	goarch := runtime.GOARCH
	if goarch == "" {
		goarch = "unknown"
	}
	return Platform{
		OS:   NormalizeOS(goos),
		Arch: NormalizeArch(goarch),
	}
}

// IsWindows reports whether the running platform is Windows.
func IsWindows() bool {
	return runtime.GOOS == OSWindows
}

// String returns a string representation of the platform.
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// NormalizeOS normalizes OS names to a common format.
func NormalizeOS(os string) string {
	os = strings.ToLower(os)
	switch os {
	case "win", "win32", "windows":
		return OSWindows
	case "macos", "osx", "darwin":
		return OSDarwin
	default:
		return os
	}
}

// NormalizeArch normalizes architecture names to a common format.
func NormalizeArch(arch string) string {
	arch = strings.ToLower(arch)
	switch arch {
	case "x86_64", "x64":
		return "amd64"
	case "x86", "i386", "i686", "ia32":
		return "386"
	case "aarch64":
		return "arm64"
	default:
		return arch
	}
}
