package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlxr-dev/dlxr/pkg/fsutil"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dlxr configuration",
	}

	cmd.AddCommand(newConfigShowCmd(), newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("dlx_root:      %s\n", cfg.Settings.DlxRoot)
			fmt.Printf("manifest_path: %s\n", cfg.Settings.ManifestPath)
			fmt.Printf("cache_ttl:     %s\n", cfg.Settings.CacheTTL)
			fmt.Printf("http_timeout:  %s\n", cfg.Settings.HTTPTimeout)
			fmt.Printf("user_agent:    %s\n", cfg.Settings.UserAgent)
			fmt.Printf("platform:      %s\n", cfg.Settings.Platform)
			fmt.Printf("log_level:     %s\n", cfg.Settings.LogLevel)
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := ""
			if ConfigPath != nil && *ConfigPath != "" {
				path = *ConfigPath
			} else if path, err = fsutil.GetConfigPath(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
