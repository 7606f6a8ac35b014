package cli

import (
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlxr-dev/dlxr/internal/logger"
	"github.com/dlxr-dev/dlxr/pkg/dlx"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var (
		url      string
		name     string
		checksum string
		force    bool
		cacheTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run --url URL [flags] [-- ARGS...]",
		Short: "Download, cache, and execute a binary",
		Long: `Fetch a binary from a URL (or reuse the cached copy), verify its
checksum when one is given, and execute it with the remaining arguments.
The process exit code is forwarded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, dlx.RunOptions{
				URL:      url,
				Name:     name,
				Checksum: checksum,
				Force:    force,
				CacheTTL: cacheTTL,
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "source URL of the binary (required)")
	cmd.Flags().StringVar(&name, "name", "", "artifact filename (derived from the URL when empty)")
	cmd.Flags().StringVar(&checksum, "checksum", "", "expected hex SHA-256 of the download")
	cmd.Flags().BoolVar(&force, "force", false, "redownload even when the cache entry is fresh")
	cmd.Flags().DurationVar(&cacheTTL, "ttl", 0, "cache entry max age (default 168h)")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts dlx.RunOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Duration(cfg.Settings.CacheTTL)
	}
	manager := buildManager(cfg)

	result, err := manager.RunBinary(cmd.Context(), args, opts)
	if err != nil {
		return err
	}
	logger.Debug("spawned binary", logger.Fields{
		"path":       result.BinaryPath,
		"downloaded": result.Downloaded,
		"pid":        result.Process.Pid(),
	})

	if err := result.Process.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Forward the child's exit code instead of reporting a
			// dlxr failure.
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	return nil
}
