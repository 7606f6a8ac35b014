// Package config provides configuration management for dlxr. It handles
// loading and validating application settings from a YAML file, supplying
// sensible defaults when the file is absent. The dlx cache root is resolved
// here once, at startup, so the rest of the code never reads environment
// state ad hoc.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dlxr-dev/dlxr/pkg/errors"
	"github.com/dlxr-dev/dlxr/pkg/fsutil"
	"github.com/dlxr-dev/dlxr/pkg/platform"
)

// Default configuration values.
const (
	// DefaultCacheTTL is the default maximum age of a dlx cache entry
	// before it is re-downloaded.
	DefaultCacheTTL = 7 * 24 * time.Hour

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 5 * time.Minute

	// DefaultUserAgent identifies dlxr to download servers.
	DefaultUserAgent = "dlxr/1.0"
)

// Duration is a time.Duration with human-readable YAML encoding, so config
// files can say "24h" instead of a nanosecond count.
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Both "24h" strings and plain
// nanosecond integers are accepted.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var asInt int64
	if err := value.Decode(&asInt); err == nil {
		*d = Duration(asInt)
		return nil
	}
	var asStr string
	if err := value.Decode(&asStr); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(asStr)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", asStr, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Cache settings
	DlxRoot      string   `yaml:"dlx_root,omitempty"`
	ManifestPath string   `yaml:"manifest_path,omitempty"`
	CacheTTL     Duration `yaml:"cache_ttl"`

	// Network settings
	HTTPTimeout Duration `yaml:"http_timeout"`
	UserAgent   string   `yaml:"user_agent,omitempty"`

	// Platform settings
	Platform platform.Platform `yaml:"platform,omitempty"`

	// Output settings
	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dlxRoot, err := fsutil.GetDlxRoot()
	if err != nil {
		dlxRoot = filepath.Join(".", "_dlx")
	}
	manifestPath, err := fsutil.GetManifestPath()
	if err != nil {
		manifestPath = filepath.Join(".", "manifest.json")
	}

	return &Config{
		Settings: Settings{
			DlxRoot:      dlxRoot,
			ManifestPath: manifestPath,
			CacheTTL:     Duration(DefaultCacheTTL),
			HTTPTimeout:  Duration(DefaultHTTPTimeout),
			UserAgent:    DefaultUserAgent,
			Platform:     platform.Current(),
			LogLevel:     "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return parseConfig(file)
}

func parseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Settings.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl cannot be negative: %w", errors.ErrConfigValidation)
	}
	if c.Settings.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout cannot be negative: %w", errors.ErrConfigValidation)
	}
	if c.Settings.DlxRoot == "" {
		return fmt.Errorf("dlx_root cannot be empty: %w", errors.ErrConfigValidation)
	}
	return nil
}

// Save writes the configuration to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}
	if err := os.MkdirAll(filepath.Dir(path), fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create config directory %s", filepath.Dir(path))
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return os.WriteFile(path, data, fsutil.FileModeSecure)
}

// HooksDir returns the directory scanned for policy hook scripts.
func HooksDir() (string, error) {
	dataDir, err := fsutil.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "hooks"), nil
}
