package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlxr-dev/dlxr/internal/logger"
)

// NewCacheCmd creates the cache command with subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the dlx cache",
		Long:  "List, clean, and remove cached downloads",
	}

	cmd.AddCommand(
		newCacheListCmd(),
		newCacheCleanCmd(),
		newCacheRemoveCmd(),
		newCacheClearCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached downloads",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			entries, err := buildManager(cfg).List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("The dlx cache is empty.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %-20s  %8s  %s/%s  %s\n",
					e.CacheKey,
					e.Name,
					formatBytes(e.Size),
					e.Platform, e.Arch,
					e.Timestamp.Format("2006-01-02 15:04:05"),
				)
			}
			return nil
		},
	}
}

func newCacheCleanCmd() *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cache entries older than a cutoff",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			removed, err := buildManager(cfg).Clean(maxAge)
			if err != nil {
				return err
			}
			logger.Info("cache clean completed", logger.Fields{"removed": removed})
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "age cutoff for removal (default 168h)")
	return cmd
}

func newCacheRemoveCmd() *cobra.Command {
	var (
		url  string
		name string
	)

	cmd := &cobra.Command{
		Use:   "remove (--url URL [--name NAME] | PACKAGE)",
		Short: "Remove a single cache entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager := buildManager(cfg)

			if len(args) == 1 {
				return manager.RemovePackage(args[0])
			}
			if url == "" {
				return fmt.Errorf("either a package name or --url is required")
			}
			return manager.Remove(url, name)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "source URL of the cached binary")
	cmd.Flags().StringVar(&name, "name", "", "artifact filename used at download time")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the entire dlx cache",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := buildManager(cfg).ClearAll(); err != nil {
				return err
			}
			logger.Info("dlx cache cleared")
			return nil
		},
	}
}

func newCacheDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Show the dlx cache directory path",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cfg.Settings.DlxRoot)
			return nil
		},
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	if exp < len(units) {
		return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
	}
	return fmt.Sprintf("%d B", bytes)
}
