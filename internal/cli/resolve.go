package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/dlxr-dev/dlxr/pkg/errors"
	"github.com/dlxr-dev/dlxr/pkg/shim"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve COMMAND",
		Short: "Resolve the real program behind a command",
		Long: `Locate a command (a path or a binary name looked up on PATH) and unwind
any launcher wrappers (cmd-shim scripts, Volta shims) to the artifact that
actually runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			resolved, err := shim.NewResolver().ResolveCommand(args[0])
			if err != nil {
				if errors.Is(err, pkgerrors.ErrBinaryNotFound) {
					return fmt.Errorf("%w\nCheck the spelling, make sure the tool is installed, and verify it is on your PATH", err)
				}
				return err
			}
			fmt.Println(resolved)
			return nil
		},
	}
}
