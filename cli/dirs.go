package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDirsCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dirs",
		Short: "List the tracked directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.loadWithRoot()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			inv, err := app.openInventory(cfg, dir, logger)
			if err != nil {
				return err
			}
			dirs := inv.Directories()
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"directories": dirs})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d tracked directories:\n", len(dirs))
			for _, d := range dirs {
				fmt.Fprintf(out, "  %s\n", d)
			}
			return nil
		},
	}
}
