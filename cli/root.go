// Package cli implements the filetag command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates and returns the root cobra command for filetag.
func NewRootCommand(version string) *cobra.Command {
	app := &appContext{}

	cmd := &cobra.Command{
		Use:   "filetag",
		Short: "Track, monitor, and tag the files under a directory",
		Long: `filetag keeps a live inventory of the files under a root directory,
filtered by include/exclude patterns, and lets you organize tracked
files with hierarchical tags.

The inventory persists across runs and can be kept current with the
watch command or served to agent clients over MCP.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.configDirFlag, "config-dir", "", "config directory (default $FILETAG_CONFIG_DIR or ~/.filetag)")
	flags.BoolVar(&app.jsonOutput, "json", false, "output in JSON format")
	flags.StringVar(&app.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	cmd.AddCommand(
		newInitCommand(app),
		newStatusCommand(app),
		newRescanCommand(app),
		newWatchCommand(app),
		newPatternsCommand(app),
		newDirsCommand(app),
		newFilesCommand(app),
		newTagCommand(app),
		newFileCommand(app),
		newMCPCommand(app),
	)

	return cmd
}
