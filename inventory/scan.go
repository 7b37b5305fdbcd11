package inventory

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// Scan rebuilds the index from disk. Both maps are cleared, the walk
// re-evaluates every entry against the rule engine, a directory_created
// notification fires for the root and each accepted directory, and one
// snapshot persist runs at the end. Per-entry failures are logged and
// skipped so a single unreadable file cannot abort the rebuild.
func (inv *Inventory) Scan() error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.scanLocked()
}

func (inv *Inventory) scanLocked() error {
	inv.files = make(map[string]*FileRecord)
	inv.sortedPaths = nil
	inv.dirs = make(map[string]struct{})

	inv.dirs[inv.root] = struct{}{}
	inv.bus.Publish(Notification{Type: NotifyDirCreated, Path: inv.root})

	root := inv.root
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			inv.logger.Warn("scan entry failed", "path", path, "error", err)
			return nil
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			if inv.admitsDirLocked(path) {
				inv.dirs[path] = struct{}{}
				inv.bus.Publish(Notification{Type: NotifyDirCreated, Path: path})
			}
			if !inv.recursive {
				// Only the root's own listing is scanned.
				return fs.SkipDir
			}
			return nil
		}
		rel, ok := inv.relPath(path)
		if !ok || !inv.engine.IncludeFile(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			inv.logger.Warn("scan stat failed", "path", path, "error", err)
			return nil
		}
		inv.insertRecordLocked(path, inv.recordFromInfo(path, info))
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("walking %s: %w", root, walkErr)
	}

	inv.logger.Info("scan complete",
		"root", root, "files", len(inv.files), "directories", len(inv.dirs))
	return inv.saveLocked()
}
