// Package inventory maintains the live index of files and directories
// tracked under a monitored root. The index is rebuilt by Scan, kept current
// by Apply as filesystem events arrive, and mirrored to a JSON snapshot on
// every accepted mutation.
package inventory

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/danwakefield/fnmatch"
	"github.com/google/uuid"

	"github.com/mzalewski/filetag/rules"
)

// Options configures a new Inventory. Root is required and must name an
// existing directory; everything else has a usable zero value.
type Options struct {
	Root          string
	Rules         rules.RuleSet
	Recursive     bool
	StorePath     string
	UseIgnoreFile bool
	Logger        *slog.Logger
}

// Inventory is the tracked state for one root. All exported methods are safe
// for concurrent use; mutation, cascade, notification dispatch and persist
// run as one unit under a single write lock.
type Inventory struct {
	mu sync.RWMutex

	root          string
	recursive     bool
	rules         rules.RuleSet
	engine        *rules.Engine
	useIgnoreFile bool

	files       map[string]*FileRecord // keyed by absolute path
	sortedPaths []string               // root-relative, slash-separated, sorted
	dirs        map[string]struct{}    // absolute paths, root always present

	storePath   string
	autoPersist bool
	bus         *Bus
	logger      *slog.Logger
}

func New(opts Options) (*Inventory, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("checking root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rs := opts.Rules.Clone()
	if len(rs.Include) == 0 && len(rs.Exclude) == 0 {
		rs = rules.Default()
	}

	inv := &Inventory{
		root:          root,
		recursive:     opts.Recursive,
		rules:         rs,
		useIgnoreFile: opts.UseIgnoreFile,
		files:         make(map[string]*FileRecord),
		dirs:          make(map[string]struct{}),
		storePath:     opts.StorePath,
		autoPersist:   opts.StorePath != "",
		bus:           NewBus(logger),
		logger:        logger,
	}
	inv.dirs[root] = struct{}{}
	inv.rebuildEngineLocked()
	return inv, nil
}

func (inv *Inventory) Root() string { return inv.root }

func (inv *Inventory) Recursive() bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.recursive
}

// Rules returns a copy of the active rule set.
func (inv *Inventory) Rules() rules.RuleSet {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.rules.Clone()
}

// SetRules replaces the active rule set and recompiles the engine. The index
// itself is not re-evaluated; call Scan to apply the new rules to disk.
func (inv *Inventory) SetRules(rs rules.RuleSet) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.rules = rs.Clone()
	inv.rebuildEngineLocked()
}

// ReloadRules recompiles the engine against the current rule set, picking up
// an edited .gitignore.
func (inv *Inventory) ReloadRules() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.rebuildEngineLocked()
}

func (inv *Inventory) rebuildEngineLocked() {
	engine := rules.NewEngine(inv.rules)
	if inv.useIgnoreFile {
		if err := engine.LoadIgnoreFile(inv.root); err != nil {
			inv.logger.Warn("loading .gitignore failed", "root", inv.root, "error", err)
		}
	}
	inv.engine = engine
}

// SetAutoPersist controls whether each accepted mutation writes the snapshot
// immediately. The monitor turns it off when persist batching is configured.
func (inv *Inventory) SetAutoPersist(on bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.autoPersist = on
}

// Subscribe registers cb for every inventory mutation and returns the token
// Unsubscribe takes.
func (inv *Inventory) Subscribe(cb Callback) uuid.UUID {
	return inv.bus.Register(cb)
}

func (inv *Inventory) Unsubscribe(id uuid.UUID) bool {
	return inv.bus.Unregister(id)
}

func (inv *Inventory) Len() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.files)
}

// Files returns a copy of the index keyed by absolute path.
func (inv *Inventory) Files() map[string]FileRecord {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make(map[string]FileRecord, len(inv.files))
	for abs, rec := range inv.files {
		out[abs] = *rec
	}
	return out
}

// Directories returns the tracked directories as sorted absolute paths.
func (inv *Inventory) Directories() []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]string, 0, len(inv.dirs))
	for dir := range inv.dirs {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

// GetFileInfo returns a copy of the record for path, which may be given
// relative to the working directory. Untracked paths return nil.
func (inv *Inventory) GetFileInfo(path string) *FileRecord {
	abs := inv.canonical(path)
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	rec, ok := inv.files[abs]
	if !ok {
		return nil
	}
	out := *rec
	return &out
}

// FindFilter narrows Find results. Name is an fnmatch pattern applied to the
// basename; nil size bounds are unset.
type FindFilter struct {
	Name    string
	MinSize *int64
	MaxSize *int64
}

// Find returns the sorted absolute paths of tracked files matching filter.
// Entries whose file no longer exists on disk are skipped.
func (inv *Inventory) Find(filter FindFilter) []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	var out []string
	for abs, rec := range inv.files {
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		if filter.Name != "" && !fnmatch.Match(filter.Name, filepath.Base(abs), 0) {
			continue
		}
		if filter.MinSize != nil && rec.Size < *filter.MinSize {
			continue
		}
		if filter.MaxSize != nil && rec.Size > *filter.MaxSize {
			continue
		}
		out = append(out, abs)
	}
	sort.Strings(out)
	return out
}

// GlobPaths returns the tracked relative paths matching a doublestar glob,
// in sorted order.
func (inv *Inventory) GlobPaths(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	var out []string
	for _, rel := range inv.sortedPaths {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return nil, fmt.Errorf("matching pattern: %w", err)
		}
		if ok {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (inv *Inventory) canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// relPath rewrites abs as a slash-separated path relative to the root.
func (inv *Inventory) relPath(abs string) (string, bool) {
	rel, err := filepath.Rel(inv.root, abs)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (inv *Inventory) insertRecordLocked(abs string, rec *FileRecord) {
	if _, exists := inv.files[abs]; !exists {
		inv.sortedPaths = append(inv.sortedPaths, rec.RelativePath)
		sort.Strings(inv.sortedPaths)
	}
	inv.files[abs] = rec
}

func (inv *Inventory) removeRecordLocked(abs string) {
	rec, ok := inv.files[abs]
	if !ok {
		return
	}
	delete(inv.files, abs)
	i := sort.SearchStrings(inv.sortedPaths, rec.RelativePath)
	if i < len(inv.sortedPaths) && inv.sortedPaths[i] == rec.RelativePath {
		inv.sortedPaths = append(inv.sortedPaths[:i], inv.sortedPaths[i+1:]...)
	}
}

// admitsDirLocked reports whether a directory at abs belongs in the tracked
// set: inside the monitored shape and accepted by the rule engine.
func (inv *Inventory) admitsDirLocked(abs string) bool {
	if !inv.recursive && filepath.Dir(abs) != inv.root {
		return false
	}
	rel, ok := inv.relPath(abs)
	return ok && inv.engine.IncludeDir(rel)
}

func (inv *Inventory) recordFromInfo(abs string, info fs.FileInfo) *FileRecord {
	rel, _ := inv.relPath(abs)
	return &FileRecord{
		Size:         info.Size(),
		CreatedTime:  createdTime(info),
		ModifiedTime: info.ModTime(),
		RelativePath: rel,
	}
}

func (inv *Inventory) statRecord(abs string) (*FileRecord, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", abs)
	}
	return inv.recordFromInfo(abs, info), nil
}
