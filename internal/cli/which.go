package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/dlxr-dev/dlxr/pkg/errors"
	"github.com/dlxr-dev/dlxr/pkg/shim"
)

// NewWhichCmd creates the which command.
func NewWhichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "which COMMAND",
		Short: "Resolve and classify a command",
		Long: `Resolve a command to its real artifact and report whether it would be
launched as a Node package entry point or as a native binary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			resolved, err := shim.NewResolver().ResolveCommand(args[0])
			if err != nil {
				if errors.Is(err, pkgerrors.ErrBinaryNotFound) {
					return fmt.Errorf("%w\nCheck the spelling, make sure the tool is installed, and verify it is on your PATH", err)
				}
				return err
			}

			detected := buildManager(cfg).Detector().Detect(resolved)
			fmt.Printf("path:   %s\n", resolved)
			fmt.Printf("type:   %s\n", detected.Type)
			fmt.Printf("method: %s\n", detected.Method)
			if detected.PackageJSONPath != "" {
				fmt.Printf("manifest: %s\n", detected.PackageJSONPath)
			}
			return nil
		},
	}
}
