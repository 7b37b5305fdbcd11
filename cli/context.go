package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mzalewski/filetag/config"
	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/rules"
	"github.com/mzalewski/filetag/tagstore"
)

// appContext carries the persistent flag values shared by every subcommand.
type appContext struct {
	configDirFlag string
	jsonOutput    bool
	logLevel      string
}

func (app *appContext) configDir() (string, error) {
	return config.Dir(app.configDirFlag)
}

// load reads the config, applying the log-level flag override.
func (app *appContext) load() (*config.Config, string, error) {
	dir, err := app.configDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, "", err
	}
	if app.logLevel != "" {
		cfg.LogLevel = app.logLevel
	}
	return cfg, dir, nil
}

// loadWithRoot is load plus the requirement that a root has been configured.
func (app *appContext) loadWithRoot() (*config.Config, string, error) {
	cfg, dir, err := app.load()
	if err != nil {
		return nil, "", err
	}
	if cfg.Root == "" {
		return nil, "", fmt.Errorf("no root configured; run 'filetag init ROOT' first")
	}
	return cfg, dir, nil
}

// newInventory builds an empty inventory for cfg without touching the
// snapshot.
func (app *appContext) newInventory(cfg *config.Config, dir string, logger *slog.Logger) (*inventory.Inventory, error) {
	return inventory.New(inventory.Options{
		Root:          cfg.Root,
		Rules:         rules.Parse(cfg.Patterns),
		Recursive:     cfg.Recursive,
		StorePath:     config.SnapshotPath(dir),
		UseIgnoreFile: cfg.UseGitignore,
		Logger:        logger,
	})
}

// openInventory builds the inventory for cfg, restoring the snapshot when one
// matches and scanning fresh otherwise.
func (app *appContext) openInventory(cfg *config.Config, dir string, logger *slog.Logger) (*inventory.Inventory, error) {
	inv, err := app.newInventory(cfg, dir, logger)
	if err != nil {
		return nil, err
	}
	loaded, err := inv.Load()
	if err != nil {
		return nil, err
	}
	if !loaded {
		if err := inv.Scan(); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

func (app *appContext) openStore(dir string, logger *slog.Logger) (*tagstore.Store, error) {
	return tagstore.Open(config.TagsPath(dir), logger)
}

// persistSnapshotRules mirrors the configured patterns into the snapshot.
// Without this a later load under default rules would resurrect the old
// snapshot patterns. No-op until a root is initialized.
func (app *appContext) persistSnapshotRules(cfg *config.Config, dir string) error {
	if cfg.Root == "" {
		return nil
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFile)
	inv, err := app.openInventory(cfg, dir, logger)
	if err != nil {
		return err
	}
	inv.SetRules(rules.Parse(cfg.Patterns))
	return inv.Save()
}

// outputJSON prints v as indented JSON on stdout.
func (app *appContext) outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
