package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mzalewski/filetag/config"
)

func newInitCommand(app *appContext) *cobra.Command {
	var patterns []string
	var recursive bool
	var noRecursive bool

	cmd := &cobra.Command{
		Use:   "init <root>",
		Short: "Configure a root directory and build its inventory",
		Long: `Configure filetag to track the files under <root>.

Patterns select which files are tracked: plain tokens include
(e.g. "md" or "*.py"), a leading ! excludes ("!build/*"), and !!
re-includes inside excluded directories ("!!build/keep/*"). With no
patterns every file is tracked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving root: %w", err)
			}
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("root %s: %w", root, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("root %s is not a directory", root)
			}

			dir, err := app.configDir()
			if err != nil {
				return err
			}
			if err := config.EnsureDir(dir); err != nil {
				return err
			}

			cfg := config.Default()
			cfg.Root = root
			if len(patterns) > 0 {
				cfg.Patterns = patterns
			}
			cfg.Recursive = recursive && !noRecursive
			if app.logLevel != "" {
				cfg.LogLevel = app.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, dir); err != nil {
				return err
			}

			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			inv, err := app.newInventory(cfg, dir, logger)
			if err != nil {
				return err
			}
			// Always scan fresh; a re-init must not inherit a stale snapshot.
			if err := inv.Scan(); err != nil {
				return fmt.Errorf("scanning %s: %w", root, err)
			}

			if app.jsonOutput {
				return app.outputJSON(map[string]any{
					"root":        inv.Root(),
					"config_dir":  dir,
					"files":       inv.Len(),
					"directories": len(inv.Directories()),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized filetag for %s\n", successColor.Sprint(inv.Root()))
			fmt.Fprintf(out, "  Config: %s\n", config.Path(dir))
			fmt.Fprintf(out, "  Tracking %d files in %d directories\n", inv.Len(), len(inv.Directories()))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&patterns, "pattern", "p", nil, "include/exclude pattern (repeatable, e.g. md or '!build/*')")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "track subdirectories recursively")
	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "track only the root's own files")

	return cmd
}
