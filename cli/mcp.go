package cli

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mzalewski/filetag/config"
	"github.com/mzalewski/filetag/monitor"
	"github.com/mzalewski/filetag/register"
	"github.com/mzalewski/filetag/server"
)

func newMCPCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run or register the MCP server",
	}
	cmd.AddCommand(newMCPServeCommand(app))
	cmd.AddCommand(newMCPRegisterCommand(app))
	return cmd
}

func newMCPServeCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the inventory over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.loadWithRoot()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			// Stdio carries the protocol, so logs default to a file instead
			// of competing for the terminal.
			logFile := cfg.LogFile
			if logFile == "" {
				logFile = config.LogPath(dir)
			}
			logger := newLogger(cfg.LogLevel, logFile)

			inv, err := app.openInventory(cfg, dir, logger)
			if err != nil {
				return err
			}
			store, err := app.openStore(dir, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			mon := monitor.New(inv, monitor.Options{
				Interval:        cfg.PollInterval,
				PersistDebounce: cfg.PersistDebounce,
				ConfigDir:       dir,
				Logger:          logger,
			})
			if err := mon.Start(); err != nil {
				logger.Warn("monitor failed to start, continuing without live updates", "error", err)
			}
			defer mon.Stop()

			srv := server.Setup(inv, store, mon, logger)
			logger.Info("starting MCP server", "root", cfg.Root)
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

func newMCPRegisterCommand(app *appContext) *cobra.Command {
	var (
		scope     string
		directory string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Add this server to an MCP client config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverArgs := []string{"mcp", "serve"}
			if app.configDirFlag != "" {
				serverArgs = append(serverArgs, "--config-dir", app.configDirFlag)
			}
			path, err := register.Register(register.Options{
				Scope:      scope,
				Directory:  directory,
				ServerName: "filetag",
				ServerArgs: serverArgs,
			})
			if err != nil {
				return err
			}
			if app.jsonOutput {
				return app.outputJSON(map[string]any{"config_path": path})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q in %s\n", successColor.Sprint("Registered"), "filetag", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "project", "config scope: project or user")
	cmd.Flags().StringVar(&directory, "dir", "", "project directory for project scope")
	return cmd
}
