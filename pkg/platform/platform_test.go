package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	p := Current()
	assert.NotEmpty(t, p.OS)
	assert.NotEmpty(t, p.Arch)
	assert.Equal(t, p.OS+"/"+p.Arch, p.String())
}

func TestNormalizeOS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"win32", OSWindows},
		{"Windows", OSWindows},
		{"osx", OSDarwin},
		{"macos", OSDarwin},
		{"linux", OSLinux},
		{"freebsd", "freebsd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeOS(tt.in), tt.in)
	}
}

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"x86_64", "amd64"},
		{"X64", "amd64"},
		{"i686", "386"},
		{"aarch64", "arm64"},
		{"arm64", "arm64"},
		{"riscv64", "riscv64"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeArch(tt.in), tt.in)
	}
}
