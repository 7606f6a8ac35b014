package cli

import (
	"fmt"
	"time"

	"github.com/dlxr-dev/dlxr/internal/logger"
	"github.com/dlxr-dev/dlxr/pkg/config"
	"github.com/dlxr-dev/dlxr/pkg/dlx"
	"github.com/dlxr-dev/dlxr/pkg/download"
	"github.com/dlxr-dev/dlxr/pkg/fsutil"
	"github.com/dlxr-dev/dlxr/pkg/hook"
	"github.com/dlxr-dev/dlxr/pkg/manifest"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
)

// loadConfig loads the configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := fsutil.GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel)

	return cfg, nil
}

// buildManager wires the dlx manager from configuration: manifest store,
// download manager, and any configured policy hooks.
func buildManager(cfg *config.Config) *dlx.Manager {
	store := manifest.New(cfg.Settings.ManifestPath)
	dl := download.NewManager(time.Duration(cfg.Settings.HTTPTimeout), cfg.Settings.UserAgent)

	hooks := hook.NewManager()
	if hooksDir, err := config.HooksDir(); err == nil {
		if err := hook.LoadFromDir(hooks, hooksDir); err != nil {
			logger.Warn("failed to load policy hooks", logger.Fields{"error": err.Error()})
		}
	}

	return dlx.NewManager(cfg.Settings.DlxRoot, store, dl, hooks)
}
