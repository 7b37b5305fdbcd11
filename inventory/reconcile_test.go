package inventory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mzalewski/filetag/rules"
)

// collect subscribes a recorder; Apply dispatches synchronously, so the
// slice is complete once Apply returns.
func collect(inv *Inventory) *[]Notification {
	var got []Notification
	inv.Subscribe(func(n Notification) {
		got = append(got, n)
	})
	return &got
}

func Test_Apply_CreatedFile(t *testing.T) {
	tmpDir := t.TempDir()
	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	got := collect(inv)

	filePath := filepath.Join(tmpDir, "new.md")
	writeFile(t, filePath, "hello")

	changed, err := inv.Apply(Event{Kind: EventCreated, Path: filePath})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected index change")
	}
	if inv.GetFileInfo(filePath) == nil {
		t.Error("expected new.md to be tracked")
	}
	if len(*got) != 1 || (*got)[0].Type != NotifyCreated || (*got)[0].Path != filePath {
		t.Errorf("expected one created notification, got %v", *got)
	}
}

func Test_Apply_CreatedFile_RejectedByRules(t *testing.T) {
	tmpDir := t.TempDir()
	inv := newTestInventory(t, Options{
		Root:      tmpDir,
		Rules:     rules.Parse([]string{"md"}),
		Recursive: true,
	})
	got := collect(inv)

	filePath := filepath.Join(tmpDir, "data.csv")
	writeFile(t, filePath, "1,2")

	changed, err := inv.Apply(Event{Kind: EventCreated, Path: filePath})
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("excluded file should not change the index")
	}
	if len(*got) != 0 {
		t.Errorf("expected no notifications, got %v", *got)
	}
}

func Test_Apply_CreatedDirectory_NonRecursiveDepthLimit(t *testing.T) {
	tmpDir := t.TempDir()
	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: false})

	topDir := filepath.Join(tmpDir, "toplevel")
	deepDir := filepath.Join(tmpDir, "toplevel", "nested")
	if err := os.MkdirAll(deepDir, 0755); err != nil {
		t.Fatal(err)
	}

	changed, err := inv.Apply(Event{Kind: EventCreated, Path: topDir, IsDir: true})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("direct child directory should be admitted")
	}

	changed, err = inv.Apply(Event{Kind: EventCreated, Path: deepDir, IsDir: true})
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("nested directory should be rejected in non-recursive mode")
	}
}

func Test_Apply_DeletedDirectory_Cascade(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "docs", "a.md"), "a")
	writeFile(t, filepath.Join(tmpDir, "docs", "b.md"), "b")
	writeFile(t, filepath.Join(tmpDir, "docs", "sub", "c.md"), "c")
	writeFile(t, filepath.Join(tmpDir, "other", "d.md"), "d")

	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	if err := inv.Scan(); err != nil {
		t.Fatal(err)
	}
	got := collect(inv)

	docsDir := filepath.Join(tmpDir, "docs")
	changed, err := inv.Apply(Event{Kind: EventDeleted, Path: docsDir, IsDir: true})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected index change")
	}

	want := []Notification{
		{Type: NotifyDeleted, Path: filepath.Join(docsDir, "a.md")},
		{Type: NotifyDeleted, Path: filepath.Join(docsDir, "b.md")},
		{Type: NotifyDeleted, Path: filepath.Join(docsDir, "sub", "c.md")},
		{Type: NotifyDirDeleted, Path: filepath.Join(docsDir, "sub")},
		{Type: NotifyDirDeleted, Path: docsDir},
	}
	if len(*got) != len(want) {
		t.Fatalf("expected %d notifications, got %d: %v", len(want), len(*got), *got)
	}
	for i, n := range want {
		if (*got)[i] != n {
			t.Errorf("notification %d: expected %+v, got %+v", i, n, (*got)[i])
		}
	}

	if inv.Len() != 1 {
		t.Errorf("expected only other/d.md to remain, got %d files", inv.Len())
	}
	if inv.GetFileInfo(filepath.Join(tmpDir, "other", "d.md")) == nil {
		t.Error("sibling tree should be untouched")
	}
}

func Test_Apply_DeletedDirectory_PrefixBoundary(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "docs", "a.md"), "a")
	writeFile(t, filepath.Join(tmpDir, "docs2", "b.md"), "b")

	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	if err := inv.Scan(); err != nil {
		t.Fatal(err)
	}

	if _, err := inv.Apply(Event{Kind: EventDeleted, Path: filepath.Join(tmpDir, "docs"), IsDir: true}); err != nil {
		t.Fatal(err)
	}

	if inv.GetFileInfo(filepath.Join(tmpDir, "docs2", "b.md")) == nil {
		t.Error("docs2 must not be caught by the docs cascade")
	}
}

func Test_Apply_DeletedUntrackedPath_NoOp(t *testing.T) {
	tmpDir := t.TempDir()
	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	got := collect(inv)

	changed, err := inv.Apply(Event{Kind: EventDeleted, Path: filepath.Join(tmpDir, "ghost.md")})
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("deleting an untracked path should not change the index")
	}
	if len(*got) != 0 {
		t.Errorf("expected no notifications, got %v", *got)
	}
}

func Test_Apply_ModifiedFile_RefreshesRecord(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "a.md")
	writeFile(t, filePath, "v1")

	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	if err := inv.Scan(); err != nil {
		t.Fatal(err)
	}
	got := collect(inv)

	writeFile(t, filePath, "version two")
	changed, err := inv.Apply(Event{Kind: EventModified, Path: filePath})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected index change")
	}
	rec := inv.GetFileInfo(filePath)
	if rec.Size != int64(len("version two")) {
		t.Errorf("expected refreshed size %d, got %d", len("version two"), rec.Size)
	}
	if len(*got) != 1 || (*got)[0].Type != NotifyModified {
		t.Errorf("expected one modified notification, got %v", *got)
	}
}

func Test_Apply_ModifiedUntrackedFile_MissedCreate(t *testing.T) {
	tmpDir := t.TempDir()
	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	got := collect(inv)

	filePath := filepath.Join(tmpDir, "late.md")
	writeFile(t, filePath, "x")

	changed, err := inv.Apply(Event{Kind: EventModified, Path: filePath})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("a modify for an acceptable untracked file should be admitted")
	}
	if inv.GetFileInfo(filePath) == nil {
		t.Error("expected late.md to be tracked")
	}
	if len(*got) != 1 || (*got)[0].Type != NotifyModified {
		t.Errorf("expected a modified notification, got %v", *got)
	}
}

func Test_Apply_ModifiedDirectory_NoOp(t *testing.T) {
	tmpDir := t.TempDir()
	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	got := collect(inv)

	changed, err := inv.Apply(Event{Kind: EventModified, Path: tmpDir, IsDir: true})
	if err != nil {
		t.Fatal(err)
	}
	if changed || len(*got) != 0 {
		t.Errorf("directory modification should be a no-op, changed=%v notifications=%v", changed, *got)
	}
}

func Test_Apply_MovedFile_WithinRoot(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "old.md")
	dst := filepath.Join(tmpDir, "new.md")
	writeFile(t, src, "content")

	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	if err := inv.Scan(); err != nil {
		t.Fatal(err)
	}
	got := collect(inv)

	if err := os.Rename(src, dst); err != nil {
		t.Fatal(err)
	}
	changed, err := inv.Apply(Event{Kind: EventMoved, Path: dst, OldPath: src})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected index change")
	}
	if inv.GetFileInfo(src) != nil {
		t.Error("source should no longer be tracked")
	}
	if inv.GetFileInfo(dst) == nil {
		t.Error("destination should be tracked")
	}
	if len(*got) != 1 || (*got)[0].Type != NotifyMoved || (*got)[0].Path != src || (*got)[0].Dest != dst {
		t.Errorf("expected moved(src, dst), got %v", *got)
	}
}

func Test_Apply_MovedFile_OutOfRules(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "doc.md")
	dst := filepath.Join(tmpDir, "doc.tmp")
	writeFile(t, src, "content")

	inv := newTestInventory(t, Options{
		Root:      tmpDir,
		Rules:     rules.Parse([]string{"md"}),
		Recursive: true,
	})
	if err := inv.Scan(); err != nil {
		t.Fatal(err)
	}
	got := collect(inv)

	if err := os.Rename(src, dst); err != nil {
		t.Fatal(err)
	}
	changed, err := inv.Apply(Event{Kind: EventMoved, Path: dst, OldPath: src})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected index change")
	}
	if inv.GetFileInfo(dst) != nil {
		t.Error("destination outside the rules must not be tracked")
	}
	if len(*got) != 1 || (*got)[0].Type != NotifyDeleted || (*got)[0].Path != src {
		t.Errorf("expected a single deleted(src), got %v", *got)
	}
}

func Test_Apply_MovedDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "olddir")
	dstDir := filepath.Join(tmpDir, "newdir")
	stale := filepath.Join(srcDir, "inside.md")
	writeFile(t, stale, "s")

	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	if err := inv.Scan(); err != nil {
		t.Fatal(err)
	}
	got := collect(inv)

	if err := os.Rename(srcDir, dstDir); err != nil {
		t.Fatal(err)
	}
	changed, err := inv.Apply(Event{Kind: EventMoved, Path: dstDir, OldPath: srcDir, IsDir: true})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected index change")
	}
	if len(*got) != 1 || (*got)[0].Type != NotifyDirMoved || (*got)[0].Path != srcDir || (*got)[0].Dest != dstDir {
		t.Errorf("expected directory_moved(src, dst), got %v", *got)
	}

	// Only the directory entry moves; records underneath wait for their own
	// events from the watcher.
	if inv.GetFileInfo(stale) == nil {
		t.Error("expected the old file record to linger until its own event")
	}

	dirs := inv.Directories()
	for _, dir := range dirs {
		if dir == srcDir {
			t.Error("source directory should no longer be tracked")
		}
	}
}

func Test_Apply_MovedFromUntrackedSource(t *testing.T) {
	tmpDir := t.TempDir()
	dst := filepath.Join(tmpDir, "arrived.md")
	writeFile(t, dst, "x")

	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true})
	got := collect(inv)

	changed, err := inv.Apply(Event{
		Kind:    EventMoved,
		Path:    dst,
		OldPath: filepath.Join(tmpDir, "never-seen.md"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("expected the destination to be admitted as a create")
	}
	if len(*got) != 1 || (*got)[0].Type != NotifyCreated || (*got)[0].Path != dst {
		t.Errorf("expected created(dst), got %v", *got)
	}
}

func Test_Apply_PersistsAfterMutation(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(t.TempDir(), "file_data.json")
	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true, StorePath: storePath})
	if err := inv.Scan(); err != nil {
		t.Fatal(err)
	}

	filePath := filepath.Join(tmpDir, "fresh.md")
	writeFile(t, filePath, "f")
	if _, err := inv.Apply(Event{Kind: EventCreated, Path: filePath}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Files map[string]json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.Files[filePath]; !ok {
		t.Error("expected the new file in the persisted snapshot")
	}
}

func Test_Apply_NoPersistWhenUnchanged(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(t.TempDir(), "file_data.json")
	inv := newTestInventory(t, Options{Root: tmpDir, Recursive: true, StorePath: storePath})
	if err := inv.Scan(); err != nil {
		t.Fatal(err)
	}
	before, err := os.Stat(storePath)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := inv.Apply(Event{Kind: EventDeleted, Path: filepath.Join(tmpDir, "ghost.md")}); err != nil {
		t.Fatal(err)
	}

	after, err := os.Stat(storePath)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size() {
		t.Error("rejected event must not rewrite the snapshot")
	}
}
