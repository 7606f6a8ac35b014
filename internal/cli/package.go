package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlxr-dev/dlxr/pkg/dlx"
)

// NewPackageCmd creates the package command with subcommands.
func NewPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Manage package-install-style cache entries",
	}

	cmd.AddCommand(
		newPackageInstallCmd(),
		newPackageRemoveCmd(),
	)

	return cmd
}

func newPackageInstallCmd() *cobra.Command {
	var (
		version  string
		checksum string
		force    bool
		cacheTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "install NAME URL",
		Short: "Download and extract a package tarball into the cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cacheTTL == 0 {
				cacheTTL = time.Duration(cfg.Settings.CacheTTL)
			}

			moduleDir, err := buildManager(cfg).InstallPackage(cmd.Context(), args[0], args[1], dlx.PackageOptions{
				Version:  version,
				Checksum: checksum,
				Force:    force,
				CacheTTL: cacheTTL,
			})
			if err != nil {
				return err
			}
			fmt.Println(moduleDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "pkg-version", "", "version recorded in the manifest")
	cmd.Flags().StringVar(&checksum, "checksum", "", "expected hex SHA-256 of the tarball")
	cmd.Flags().BoolVar(&force, "force", false, "reinstall even when the entry is fresh")
	cmd.Flags().DurationVar(&cacheTTL, "ttl", 0, "cache entry max age (default 168h)")

	return cmd
}

func newPackageRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a package-install-style cache entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return buildManager(cfg).RemovePackage(args[0])
		},
	}
}
