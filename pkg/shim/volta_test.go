package shim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voltaFixture(t *testing.T) (home string, r *Resolver) {
	t.Helper()
	home = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0o755))
	return home, &Resolver{voltaHome: home}
}

func writeVoltaShim(t *testing.T, home, tool string) string {
	t.Helper()
	return writeFixture(t, home, filepath.Join("bin", tool), "#!/bin/sh\nexec volta run "+tool+" \"$@\"\n")
}

func TestResolveVolta_PinnedYarn(t *testing.T) {
	home, r := voltaFixture(t)
	writeFixture(t, home, filepath.Join("tools", "user", "platform.json"),
		`{"node":{"runtime":"20.11.0","npm":null},"yarn":"1.22.19"}`)
	target := writeFixture(t, home, filepath.Join("tools", "image", "yarn", "1.22.19", "bin", "yarn.js"), "// yarn")

	resolved := r.Resolve(writeVoltaShim(t, home, "yarn"))
	assert.Equal(t, mustRealpath(t, target), resolved)
}

func TestResolveVolta_UnpinnedPicksHighestVersion(t *testing.T) {
	home, r := voltaFixture(t)
	writeFixture(t, home, filepath.Join("tools", "image", "pnpm", "9.9.9", "bin", "pnpm.cjs"), "// old")
	target := writeFixture(t, home, filepath.Join("tools", "image", "pnpm", "10.1.0", "bin", "pnpm.cjs"), "// new")

	resolved := r.Resolve(writeVoltaShim(t, home, "pnpm"))
	assert.Equal(t, mustRealpath(t, target), resolved)
}

func TestResolveVolta_NpmBundledWithNode(t *testing.T) {
	home, r := voltaFixture(t)
	writeFixture(t, home, filepath.Join("tools", "user", "platform.json"),
		`{"node":{"runtime":"20.11.0","npm":null}}`)
	target := writeFixture(t, home,
		filepath.Join("tools", "image", "node", "20.11.0", "lib", "node_modules", "npm", "bin", "npm-cli.js"), "// npm")

	resolved := r.Resolve(writeVoltaShim(t, home, "npm"))
	assert.Equal(t, mustRealpath(t, target), resolved)
}

func TestResolveVolta_PinnedNpmImage(t *testing.T) {
	home, r := voltaFixture(t)
	writeFixture(t, home, filepath.Join("tools", "user", "platform.json"),
		`{"node":{"runtime":"20.11.0","npm":"10.5.0"}}`)
	// Both a standalone npm image and the node-bundled copy exist; the
	// pinned standalone image wins.
	writeFixture(t, home,
		filepath.Join("tools", "image", "node", "20.11.0", "lib", "node_modules", "npm", "bin", "npx-cli.js"), "// bundled")
	target := writeFixture(t, home, filepath.Join("tools", "image", "npm", "10.5.0", "bin", "npx-cli.js"), "// pinned")

	resolved := r.Resolve(writeVoltaShim(t, home, "npx"))
	assert.Equal(t, mustRealpath(t, target), resolved)
}

func TestResolveVolta_PackageInstalledTool(t *testing.T) {
	home, r := voltaFixture(t)
	writeFixture(t, home, filepath.Join("tools", "user", "bins", "cowsay.json"),
		`{"package":"cowsay","version":"1.6.0"}`)
	target := writeFixture(t, home, filepath.Join("tools", "image", "packages", "cowsay", "bin", "cowsay"), "// cli")

	resolved := r.Resolve(writeVoltaShim(t, home, "cowsay"))
	assert.Equal(t, mustRealpath(t, target), resolved)
}

func TestResolveVolta_FallsThrough(t *testing.T) {
	home, r := voltaFixture(t)

	t.Run("node shim is terminal", func(t *testing.T) {
		shim := writeVoltaShim(t, home, "node")
		assert.Equal(t, shim, r.Resolve(shim))
	})

	t.Run("missing target", func(t *testing.T) {
		writeFixture(t, home, filepath.Join("tools", "user", "platform.json"), `{"yarn":"1.22.19"}`)
		shim := writeVoltaShim(t, home, "yarn")
		// No image dir on disk; the shim path comes back unchanged.
		assert.Equal(t, shim, r.Resolve(shim))
	})

	t.Run("path outside volta home", func(t *testing.T) {
		other := t.TempDir()
		wrapper := writeFixture(t, other, "cowsay", posixFixture)
		target := writeFixture(t, other, filepath.Join("..", "cowsay", "cli.js"), "// cli")
		assert.Equal(t, mustRealpath(t, target), r.Resolve(wrapper))
	})
}
