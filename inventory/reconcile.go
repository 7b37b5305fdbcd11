package inventory

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Apply runs one decoded filesystem event through the reconciliation state
// machine. Index mutation, cascading removal, notification dispatch and the
// snapshot persist form a single unit under the write lock, so readers never
// observe a half-applied event. It reports whether the index changed.
func (inv *Inventory) Apply(ev Event) (bool, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var changed bool
	switch ev.Kind {
	case EventCreated:
		changed = inv.applyCreatedLocked(ev)
	case EventDeleted:
		changed = inv.applyDeletedLocked(ev)
	case EventModified:
		changed = inv.applyModifiedLocked(ev)
	case EventMoved:
		changed = inv.applyMovedLocked(ev)
	}
	if !changed || !inv.autoPersist {
		return changed, nil
	}
	if err := inv.saveLocked(); err != nil {
		return changed, fmt.Errorf("saving snapshot: %w", err)
	}
	return changed, nil
}

func (inv *Inventory) applyCreatedLocked(ev Event) bool {
	abs := inv.canonical(ev.Path)
	if ev.IsDir {
		if !inv.admitsDirLocked(abs) {
			return false
		}
		inv.dirs[abs] = struct{}{}
		inv.bus.Publish(Notification{Type: NotifyDirCreated, Path: abs})
		return true
	}
	rel, ok := inv.relPath(abs)
	if !ok || !inv.engine.IncludeFile(rel) {
		return false
	}
	rec, err := inv.statRecord(abs)
	if err != nil {
		inv.logger.Warn("skipping created file", "path", abs, "error", err)
		return false
	}
	inv.insertRecordLocked(abs, rec)
	inv.bus.Publish(Notification{Type: NotifyCreated, Path: abs})
	return true
}

func (inv *Inventory) applyDeletedLocked(ev Event) bool {
	abs := inv.canonical(ev.Path)
	if _, ok := inv.dirs[abs]; ok {
		inv.removeTreeLocked(abs)
		return true
	}
	if _, ok := inv.files[abs]; ok {
		inv.removeRecordLocked(abs)
		inv.bus.Publish(Notification{Type: NotifyDeleted, Path: abs})
		return true
	}
	return false
}

// applyModifiedLocked refreshes the record for a changed file. A modify for
// an acceptable file that was never tracked is a missed create and is
// admitted here, still reported as modified.
func (inv *Inventory) applyModifiedLocked(ev Event) bool {
	if ev.IsDir {
		return false
	}
	abs := inv.canonical(ev.Path)
	rel, ok := inv.relPath(abs)
	if !ok || !inv.engine.IncludeFile(rel) {
		return false
	}
	rec, err := inv.statRecord(abs)
	if err != nil {
		inv.logger.Warn("skipping modified file", "path", abs, "error", err)
		return false
	}
	inv.insertRecordLocked(abs, rec)
	inv.bus.Publish(Notification{Type: NotifyModified, Path: abs})
	return true
}

func (inv *Inventory) applyMovedLocked(ev Event) bool {
	src := inv.canonical(ev.OldPath)
	dst := inv.canonical(ev.Path)

	if _, ok := inv.dirs[src]; ok {
		delete(inv.dirs, src)
		if inv.admitsDirLocked(dst) {
			inv.dirs[dst] = struct{}{}
			inv.bus.Publish(Notification{Type: NotifyDirMoved, Path: src, Dest: dst})
		} else {
			inv.bus.Publish(Notification{Type: NotifyDirDeleted, Path: src})
		}
		return true
	}

	if _, ok := inv.files[src]; ok {
		inv.removeRecordLocked(src)
		rel, relOK := inv.relPath(dst)
		if relOK && inv.engine.IncludeFile(rel) {
			rec, err := inv.statRecord(dst)
			if err == nil {
				inv.insertRecordLocked(dst, rec)
				inv.bus.Publish(Notification{Type: NotifyMoved, Path: src, Dest: dst})
				return true
			}
			inv.logger.Warn("skipping moved file", "path", dst, "error", err)
		}
		inv.bus.Publish(Notification{Type: NotifyDeleted, Path: src})
		return true
	}

	// A move from an untracked source is the first sighting of the
	// destination; treat it as a create.
	return inv.applyCreatedLocked(Event{Kind: EventCreated, Path: dst, IsDir: ev.IsDir})
}

// removeTreeLocked drops dir and everything tracked beneath it, emitting one
// notification per removal: files first, then subdirectories, then dir
// itself, each group in sorted path order.
func (inv *Inventory) removeTreeLocked(dir string) {
	var doomedFiles []string
	for abs := range inv.files {
		if underDir(abs, dir) {
			doomedFiles = append(doomedFiles, abs)
		}
	}
	sort.Strings(doomedFiles)
	for _, abs := range doomedFiles {
		inv.removeRecordLocked(abs)
		inv.bus.Publish(Notification{Type: NotifyDeleted, Path: abs})
	}

	var doomedDirs []string
	for sub := range inv.dirs {
		if sub != dir && underDir(sub, dir) {
			doomedDirs = append(doomedDirs, sub)
		}
	}
	sort.Strings(doomedDirs)
	for _, sub := range doomedDirs {
		delete(inv.dirs, sub)
		inv.bus.Publish(Notification{Type: NotifyDirDeleted, Path: sub})
	}

	delete(inv.dirs, dir)
	inv.bus.Publish(Notification{Type: NotifyDirDeleted, Path: dir})
}

// underDir reports whether path lies at or below dir. The check is separator
// aware so /root/foo does not capture /root/foobar.
func underDir(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
