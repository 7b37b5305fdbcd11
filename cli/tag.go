package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mzalewski/filetag/tagstore"
)

func newTagCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage the tag hierarchy",
	}
	cmd.AddCommand(newTagCreateCommand(app))
	cmd.AddCommand(newTagRemoveCommand(app))
	cmd.AddCommand(newTagListCommand(app))
	cmd.AddCommand(newTagSearchCommand(app))
	return cmd
}

func newTagCreateCommand(app *appContext) *cobra.Command {
	var (
		description string
		parent      string
	)
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a tag",
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

			id, err := store.CreateTag(args[0], description, parent)
			if err != nil {
				return err
			}
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"id": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successColor.Sprint("Created tag"), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "tag description, also searchable")
	cmd.Flags().StringVar(&parent, "parent", "", "id of the parent tag")
	return cmd
}

func newTagRemoveCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a tag and its descendants",
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

			if err := store.RemoveTag(args[0]); err != nil {
				return err
			}
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"removed": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successColor.Sprint("Removed tag"), args[0])
			return nil
		},
	}
}

func newTagListCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tags as a tree",
		Args:  cobra.NoArgs,
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

			tags := store.AllTags()
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"tags": tags})
			}
			out := cmd.OutOrStdout()
			if len(tags) == 0 {
				fmt.Fprintln(out, "No tags defined.")
				return nil
			}
			renderTagTree(out, tags)
			return nil
		},
	}
}

func newTagSearchCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search tag names and descriptions",
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

			ids, err := store.Search(args[0])
			if err != nil {
				return err
			}
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"matches": ids})
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No tags matched.")
				return nil
			}
			for _, id := range ids {
				if tag := store.GetTag(id); tag != nil {
					fmt.Fprintf(out, "%s (%s)\n", id, tag.Name)
				}
			}
			return nil
		},
	}
}

// renderTagTree prints the hierarchy with children indented under their
// parents. Tags whose parent id is unknown are promoted to roots, and the
// visited set stops a walk through a hand-edited store whose parent links
// form a loop.
func renderTagTree(out io.Writer, tags map[string]tagstore.Tag) {
	children := make(map[string][]string)
	var roots []string
	for id, tag := range tags {
		if tag.Parent == "" {
			roots = append(roots, id)
			continue
		}
		if _, ok := tags[tag.Parent]; !ok {
			roots = append(roots, id)
			continue
		}
		children[tag.Parent] = append(children[tag.Parent], id)
	}
	sort.Strings(roots)
	for _, ids := range children {
		sort.Strings(ids)
	}

	visited := make(map[string]bool)
	var render func(id string, depth int)
	render = func(id string, depth int) {
		if visited[id] {
			return
		}
		visited[id] = true
		tag := tags[id]
		for i := 0; i < depth; i++ {
			fmt.Fprint(out, "  ")
		}
		fmt.Fprintf(out, "%s (%s)\n", id, tag.Name)
		for _, child := range children[id] {
			render(child, depth+1)
		}
	}
	for _, id := range roots {
		render(id, 0)
	}

	// Members of a parent loop are reachable from no root; render them flat
	// so nothing silently disappears.
	var orphans []string
	for id := range tags {
		if !visited[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		render(id, 0)
	}
}
