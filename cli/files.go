package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/tools"
)

func newFilesCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Query the tracked files",
	}
	cmd.AddCommand(newFilesFindCommand(app))
	cmd.AddCommand(newFilesGlobCommand(app))
	cmd.AddCommand(newFilesInfoCommand(app))
	cmd.AddCommand(newFilesByTagsCommand(app))
	return cmd
}

func newFilesFindCommand(app *appContext) *cobra.Command {
	var (
		name    string
		minSize int64
		maxSize int64
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find tracked files by name pattern or size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && minSize <= 0 && maxSize <= 0 {
				return fmt.Errorf("at least one of --name, --min-size, or --max-size is required")
			}
			cfg, dir, err := app.loadWithRoot()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			inv, err := app.openInventory(cfg, dir, logger)
			if err != nil {
				return err
			}
			filter := inventory.FindFilter{Name: name}
			if minSize > 0 {
				filter.MinSize = &minSize
			}
			if maxSize > 0 {
				filter.MaxSize = &maxSize
			}
			paths := inv.Find(filter)
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"files": paths})
			}
			fmt.Fprint(cmd.OutOrStdout(), tools.FormatPathList(paths))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "filename pattern, e.g. '*.md'")
	cmd.Flags().Int64Var(&minSize, "min-size", 0, "minimum file size in bytes")
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "maximum file size in bytes")
	return cmd
}

func newFilesGlobCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "glob PATTERN",
		Short: "List tracked files matching a path glob",
		Args:  cobra.ExactArgs(1),
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
			paths, err := inv.GlobPaths(args[0])
			if err != nil {
				return err
			}
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"files": paths})
			}
			fmt.Fprint(cmd.OutOrStdout(), tools.FormatPathList(paths))
			return nil
		},
	}
}

func newFilesInfoCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info PATH",
		Short: "Show the tracked record and tags for one file",
		Args:  cobra.ExactArgs(1),
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

			abs, err := filepath.Abs(args[0])
			if err != nil {
				abs = args[0]
			}
			rec := inv.GetFileInfo(abs)
			if rec == nil {
				return fmt.Errorf("file not tracked: %s", abs)
			}
			tags := store.FileTags(abs)
			if app.jsonOutput {
				return app.outputJSON(map[string]any{
					"path":          abs,
					"relative_path": rec.RelativePath,
					"size":          rec.Size,
					"created_time":  rec.CreatedTime.Format(time.RFC3339),
					"modified_time": rec.ModifiedTime.Format(time.RFC3339),
					"tags":          tags,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), tools.FormatFileDetails(abs, rec, tags))
			return nil
		},
	}
}

func newFilesByTagsCommand(app *appContext) *cobra.Command {
	var matchAll bool
	cmd := &cobra.Command{
		Use:   "by-tags TAG...",
		Short: "List files carrying the given tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.loadWithRoot()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			store, err := app.openStore(dir, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			paths, err := store.FindFilesByTags(args, matchAll)
			if err != nil {
				return err
			}
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"files": paths})
			}
			fmt.Fprint(cmd.OutOrStdout(), tools.FormatPathList(paths))
			return nil
		},
	}
	cmd.Flags().BoolVar(&matchAll, "match-all", false, "require every tag instead of any")
	return cmd
}
