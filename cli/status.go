package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the tracked inventory and its rules",
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
			store, err := app.openStore(dir, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ruleSet := inv.Rules()
			tagCount := len(store.AllTags())

			if app.jsonOutput {
				return app.outputJSON(map[string]any{
					"root":             inv.Root(),
					"config_dir":       dir,
					"files":            inv.Len(),
					"directories":      len(inv.Directories()),
					"tags":             tagCount,
					"include_patterns": ruleSet.Include,
					"exclude_patterns": ruleSet.Exclude,
					"recursive":        inv.Recursive(),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Root:        %s\n", labelColor.Sprint(inv.Root()))
			fmt.Fprintf(out, "Config dir:  %s\n", dir)
			fmt.Fprintf(out, "Files:       %d\n", inv.Len())
			fmt.Fprintf(out, "Directories: %d\n", len(inv.Directories()))
			fmt.Fprintf(out, "Tags:        %d\n", tagCount)
			fmt.Fprintf(out, "Include:     %s\n", strings.Join(ruleSet.Include, ", "))
			if len(ruleSet.Exclude) > 0 {
				fmt.Fprintf(out, "Exclude:     %s\n", strings.Join(ruleSet.Exclude, ", "))
			}
			fmt.Fprintf(out, "Recursive:   %v\n", inv.Recursive())
			return nil
		},
	}
}
