package monitor

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mzalewski/filetag/config"
	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/rules"
)

// configReloader re-reads config.yaml when it changes and refreshes ignore
// rules when the root's .gitignore does. It watches directories rather than
// the files themselves because atomic saves replace the file via rename,
// which would silently kill a file-level watch.
type configReloader struct {
	fsw    *fsnotify.Watcher
	dir    string
	inv    *inventory.Inventory
	logger *slog.Logger
	wg     sync.WaitGroup
}

func newConfigReloader(dir string, inv *inventory.Inventory, logger *slog.Logger) (*configReloader, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	// The root may be gone or unreadable; config reload still works without it.
	if err := fsw.Add(inv.Root()); err != nil {
		logger.Warn("gitignore hot reload unavailable", "root", inv.Root(), "error", err)
	}

	r := &configReloader{fsw: fsw, dir: dir, inv: inv, logger: logger}
	r.wg.Add(1)
	go r.run()
	return r, nil
}

func (r *configReloader) run() {
	defer r.wg.Done()
	for {
		select {
		case ev, ok := <-r.fsw.Events:
			if !ok {
				return
			}
			r.handle(ev)
		case err, ok := <-r.fsw.Errors:
			if !ok {
				return
			}
			r.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (r *configReloader) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return
	}
	switch filepath.Base(ev.Name) {
	case "config.yaml":
		cfg, err := config.Load(r.dir)
		if err != nil {
			r.logger.Warn("ignoring unreadable config", "path", ev.Name, "error", err)
			return
		}
		r.inv.SetRules(rules.Parse(cfg.Patterns))
		r.logger.Info("config reloaded", "path", ev.Name)
	case ".gitignore":
		r.inv.ReloadRules()
		r.logger.Info("ignore rules reloaded", "path", ev.Name)
	}
}

func (r *configReloader) close() {
	r.fsw.Close()
	r.wg.Wait()
}
