package inventory

import (
	"sort"

	"github.com/mzalewski/filetag/storage"
)

type snapshotFile struct {
	Size         int64   `json:"size"`
	CreatedTime  float64 `json:"created_time"`
	ModifiedTime float64 `json:"modified_time"`
	RelativePath string  `json:"relative_path"`
}

type snapshot struct {
	RootDir         string                  `json:"root_dir"`
	Files           map[string]snapshotFile `json:"files"`
	Directories     []string                `json:"directories"`
	IncludePatterns []string                `json:"include_patterns"`
	ExcludePatterns []string                `json:"exclude_patterns"`
	Recursive       bool                    `json:"recursive"`
}

// Save writes the full snapshot through the locked store file. It is a no-op
// when no store path is configured.
func (inv *Inventory) Save() error {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.saveLocked()
}

// saveLocked requires at least the read lock.
func (inv *Inventory) saveLocked() error {
	if inv.storePath == "" {
		return nil
	}
	snap := snapshot{
		RootDir:         inv.root,
		Files:           make(map[string]snapshotFile, len(inv.files)),
		Directories:     make([]string, 0, len(inv.dirs)),
		IncludePatterns: append([]string{}, inv.rules.Include...),
		ExcludePatterns: append([]string{}, inv.rules.Exclude...),
		Recursive:       inv.recursive,
	}
	for abs, rec := range inv.files {
		snap.Files[abs] = snapshotFile{
			Size:         rec.Size,
			CreatedTime:  epochSeconds(rec.CreatedTime),
			ModifiedTime: epochSeconds(rec.ModifiedTime),
			RelativePath: rec.RelativePath,
		}
	}
	for dir := range inv.dirs {
		snap.Directories = append(snap.Directories, dir)
	}
	sort.Strings(snap.Directories)
	return storage.WriteJSON(inv.storePath, snap)
}

// Load restores state from the snapshot file, reporting whether a usable
// snapshot was found. A snapshot recorded for a different root is ignored; a
// missing or malformed one degrades to no prior state. Patterns stored in
// the snapshot take effect only where the constructor received defaults, but
// the recursive flag always restores.
func (inv *Inventory) Load() (bool, error) {
	if inv.storePath == "" {
		return false, nil
	}
	var snap snapshot
	found, err := storage.ReadJSON(inv.storePath, &snap)
	if err != nil {
		inv.logger.Warn("discarding unreadable snapshot", "path", inv.storePath, "error", err)
		return false, nil
	}
	if !found {
		return false, nil
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if snap.RootDir != inv.root {
		inv.logger.Info("ignoring snapshot for different root",
			"snapshotRoot", snap.RootDir, "root", inv.root)
		return false, nil
	}

	inv.files = make(map[string]*FileRecord, len(snap.Files))
	inv.sortedPaths = make([]string, 0, len(snap.Files))
	for abs, sf := range snap.Files {
		inv.files[abs] = &FileRecord{
			Size:         sf.Size,
			CreatedTime:  timeFromEpoch(sf.CreatedTime),
			ModifiedTime: timeFromEpoch(sf.ModifiedTime),
			RelativePath: sf.RelativePath,
		}
		inv.sortedPaths = append(inv.sortedPaths, sf.RelativePath)
	}
	sort.Strings(inv.sortedPaths)

	inv.dirs = make(map[string]struct{}, len(snap.Directories)+1)
	for _, dir := range snap.Directories {
		inv.dirs[dir] = struct{}{}
	}
	inv.dirs[inv.root] = struct{}{}

	rulesChanged := false
	if inv.rules.IncludeIsDefault() && len(snap.IncludePatterns) > 0 {
		inv.rules.Include = append([]string(nil), snap.IncludePatterns...)
		rulesChanged = true
	}
	if len(inv.rules.Exclude) == 0 && len(snap.ExcludePatterns) > 0 {
		inv.rules.Exclude = append([]string(nil), snap.ExcludePatterns...)
		rulesChanged = true
	}
	if rulesChanged {
		inv.rebuildEngineLocked()
	}
	inv.recursive = snap.Recursive

	inv.logger.Info("snapshot loaded",
		"path", inv.storePath, "files", len(inv.files), "directories", len(inv.dirs))
	return true, nil
}
