package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newFileCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Tag and untag individual files",
	}
	cmd.AddCommand(newFileTagCommand(app))
	cmd.AddCommand(newFileUntagCommand(app))
	cmd.AddCommand(newFileTagsCommand(app))
	return cmd
}

func newFileTagCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tag PATH ID...",
		Short: "Attach tags to a file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			store, err := app.openStore(dir, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			abs, err := filepath.Abs(args[0])
			if err != nil {
				abs = args[0]
			}
			for _, id := range args[1:] {
				if err := store.AddTagToFile(abs, id); err != nil {
					return fmt.Errorf("tagging %s with %s: %w", abs, id, err)
				}
			}
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"path": abs, "tags": store.FileTags(abs)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successColor.Sprint("Tagged"), abs)
			return nil
		},
	}
}

func newFileUntagCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "untag PATH ID...",
		Short: "Detach tags from a file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			store, err := app.openStore(dir, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			abs, err := filepath.Abs(args[0])
			if err != nil {
				abs = args[0]
			}
			for _, id := range args[1:] {
				if err := store.RemoveTagFromFile(abs, id); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), warnColor.Sprintf("Skipping %s: %v", id, err))
				}
			}
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"path": abs, "tags": store.FileTags(abs)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successColor.Sprint("Untagged"), abs)
			return nil
		},
	}
}

func newFileTagsCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tags PATH",
		Short: "List the tags attached to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			store, err := app.openStore(dir, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			abs, err := filepath.Abs(args[0])
			if err != nil {
				abs = args[0]
			}
			ids := store.FileTags(abs)
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"path": abs, "tags": ids})
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No tags.")
				return nil
			}
			for _, id := range ids {
				if tag := store.GetTag(id); tag != nil {
					fmt.Fprintf(out, "%s (%s)\n", id, tag.Name)
				} else {
					fmt.Fprintln(out, id)
				}
			}
			return nil
		},
	}
}
