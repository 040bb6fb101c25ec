package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Typically called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the vgrid CLI and returns an error if any command fails.
//
// The root command wires up all subcommands (vqs, sz, extract, designer),
// configures logging based on the --verbose flag, and executes the command
// tree. The logger is attached to the context and accessible to all
// commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "vgrid",
		Short:        "vgrid builds vertical grids for unstructured ocean models",
		Long:         `vgrid generates VQS (variable quadratic/S) and SZ vertical grids from horizontal meshes, with batch builders and an interactive master grid designer.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("vgrid %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newVQSCmd())
	root.AddCommand(newSZCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(newDesignerCmd())

	return root.ExecuteContext(ctx)
}
