package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRescanCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rescan",
		Short: "Rebuild the inventory from the filesystem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.loadWithRoot()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			inv, err := app.newInventory(cfg, dir, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			// Scan persists the snapshot itself once the walk finishes.
			if err := inv.Scan(); err != nil {
				return fmt.Errorf("rescanning %s: %w", cfg.Root, err)
			}
			elapsed := time.Since(start)

			if app.jsonOutput {
				return app.outputJSON(map[string]any{
					"files":       inv.Len(),
					"directories": len(inv.Directories()),
					"elapsed_ms":  elapsed.Milliseconds(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rescanned %s: %d files in %d directories (%s)\n",
				cfg.Root, inv.Len(), len(inv.Directories()), elapsed.Round(time.Millisecond))
			return nil
		},
	}
}
