package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mzalewski/filetag/config"
	"github.com/mzalewski/filetag/rules"
)

func newPatternsCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage the include and exclude patterns",
	}
	cmd.AddCommand(newPatternsListCommand(app))
	cmd.AddCommand(newPatternsAddCommand(app))
	cmd.AddCommand(newPatternsRemoveCommand(app))
	return cmd
}

func newPatternsListCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.load()
			if err != nil {
				return err
			}
			rs := rules.Parse(cfg.Patterns)
			if app.jsonOutput {
				return app.outputJSON(map[string]any{
					"include": rs.Include,
					"exclude": rs.Exclude,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Include:")
			for _, pat := range rs.Include {
				fmt.Fprintf(out, "  %s\n", pat)
			}
			if len(rs.Exclude) > 0 {
				fmt.Fprintln(out, "Exclude:")
				for _, pat := range rs.Exclude {
					fmt.Fprintf(out, "  %s\n", pat)
				}
			}
			return nil
		},
	}
}

func newPatternsAddCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add PATTERN...",
		Short: "Add patterns to the configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.load()
			if err != nil {
				return err
			}
			rs := editableRules(cfg)
			var added, existing []string
			for _, arg := range args {
				stored, ok := rs.Add(arg)
				if stored == "" {
					continue
				}
				if ok {
					added = append(added, stored)
				} else {
					existing = append(existing, stored)
				}
			}
			cfg.Patterns = rs.Tokens()
			if err := config.Save(cfg, dir); err != nil {
				return err
			}
			if len(added) > 0 {
				if err := app.persistSnapshotRules(cfg, dir); err != nil {
					return err
				}
			}

			if app.jsonOutput {
				return app.outputJSON(map[string]any{
					"added":    added,
					"existing": existing,
					"patterns": cfg.Patterns,
				})
			}
			out := cmd.OutOrStdout()
			for _, pat := range added {
				fmt.Fprintf(out, "%s %s\n", successColor.Sprint("Added pattern:"), pat)
			}
			for _, pat := range existing {
				fmt.Fprintf(out, "Pattern already present: %s\n", pat)
			}
			if len(added) > 0 && cfg.Root != "" {
				fmt.Fprintln(out, "Run 'filetag rescan' to apply the new rules to tracked files.")
			}
			return nil
		},
	}
}

func newPatternsRemoveCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PATTERN...",
		Short: "Remove patterns from the configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.load()
			if err != nil {
				return err
			}
			rs := editableRules(cfg)
			var removed, missing []string
			for _, arg := range args {
				stored, ok := rs.Remove(arg)
				if ok {
					removed = append(removed, stored)
				} else {
					missing = append(missing, arg)
				}
			}
			cfg.Patterns = rs.Tokens()
			if err := config.Save(cfg, dir); err != nil {
				return err
			}
			if len(removed) > 0 {
				if err := app.persistSnapshotRules(cfg, dir); err != nil {
					return err
				}
			}

			if app.jsonOutput {
				return app.outputJSON(map[string]any{
					"removed":  removed,
					"missing":  missing,
					"patterns": cfg.Patterns,
				})
			}
			out := cmd.OutOrStdout()
			for _, pat := range removed {
				fmt.Fprintf(out, "%s %s\n", successColor.Sprint("Removed pattern:"), pat)
			}
			for _, pat := range missing {
				fmt.Fprintln(out, warnColor.Sprintf("No such pattern: %s", pat))
			}
			if len(removed) > 0 && cfg.Root != "" {
				fmt.Fprintln(out, "Run 'filetag rescan' to apply the new rules to tracked files.")
			}
			return nil
		},
	}
}

// editableRules parses the configured patterns for editing. Parse injects a
// catch-all include when none survives; that injected entry is stripped here
// so editing a config with an emptied pattern list starts from the patterns
// it actually names. An explicit "*" in the config stays put.
func editableRules(cfg *config.Config) rules.RuleSet {
	rs := rules.Parse(cfg.Patterns)
	if rs.IncludeIsDefault() && !hasExplicitCatchAll(cfg.Patterns) {
		rs.Include = nil
	}
	return rs
}

func hasExplicitCatchAll(tokens []string) bool {
	for _, tok := range tokens {
		if rules.Normalize(tok) == "*" {
			return true
		}
	}
	return false
}
