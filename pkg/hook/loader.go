package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// scriptExtension is the only supported hook script extension.
const scriptExtension = ".tengo"

var validTypes = map[Type]bool{
	PreDownload: true,
	PreSpawn:    true,
}

// LoadFromDir loads all hook scripts from a directory into manager. Files
// are named after their hook type, e.g. pre-spawn.tengo. A missing directory
// is not an error; unknown names and non-script files are skipped.
func LoadFromDir(manager Manager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read hooks directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != scriptExtension {
			continue
		}

		hookType := Type(strings.TrimSuffix(entry.Name(), scriptExtension))
		if !validTypes[hookType] {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read hook script %s: %w", entry.Name(), err)
		}
		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return err
		}
	}
	return nil
}
