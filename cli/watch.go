package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/monitor"
)

// watchEvent is the line format for --json watch output.
type watchEvent struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Dest string `json:"dest,omitempty"`
}

func newWatchCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the root and print changes as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.loadWithRoot()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel, cfg.LogFile)
			inv, err := app.newInventory(cfg, dir, logger)
			if err != nil {
				return err
			}
			// A fresh scan baselines the inventory against the disk as it is
			// now. Restoring a stale snapshot instead would leave offline
			// changes invisible, since the watcher only reports changes made
			// after it starts.
			if err := inv.Scan(); err != nil {
				return fmt.Errorf("scanning %s: %w", cfg.Root, err)
			}

			out := cmd.OutOrStdout()
			colorize := isatty.IsTerminal(os.Stdout.Fd())
			encoder := json.NewEncoder(out)
			inv.Subscribe(func(n inventory.Notification) {
				if app.jsonOutput {
					encoder.Encode(watchEvent{Type: n.Type.String(), Path: n.Path, Dest: n.Dest})
					return
				}
				fmt.Fprintln(out, formatNotification(n, colorize))
			})

			mon := monitor.New(inv, monitor.Options{
				Interval:        cfg.PollInterval,
				PersistDebounce: cfg.PersistDebounce,
				ConfigDir:       dir,
				Logger:          logger,
			})
			if err := mon.Start(); err != nil {
				return fmt.Errorf("starting monitor: %w", err)
			}
			go func() {
				for err := range mon.Errors() {
					fmt.Fprintln(cmd.ErrOrStderr(), warnColor.Sprint(err.Error()))
				}
			}()

			if !app.jsonOutput {
				fmt.Fprintf(out, "Watching %s (%d files tracked). Press Ctrl-C to stop.\n",
					cfg.Root, inv.Len())
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			mon.Stop()
			if !app.jsonOutput {
				fmt.Fprintln(out, "Stopped.")
			}
			return nil
		},
	}
}
