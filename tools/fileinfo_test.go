package tools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func Test_FileInfoHandler_EmptyPath(t *testing.T) {
	h := &FileInfoHandler{
		Inventory: newTestInventory(t),
		Store:     newTestStore(t),
		Logger:    testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, FileInfoArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty path")
	}
}

func Test_FileInfoHandler_UntrackedPath(t *testing.T) {
	inv := newTestInventory(t, "a.md")
	h := &FileInfoHandler{Inventory: inv, Store: newTestStore(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FileInfoArgs{
		Path: filepath.Join(inv.Root(), "missing.md"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for an untracked path")
	}
	if text := resultText(t, result); !strings.Contains(text, "not tracked") {
		t.Errorf("expected 'not tracked' message, got: %s", text)
	}
}

func Test_FileInfoHandler_ShowsRecordAndTags(t *testing.T) {
	inv := newTestInventory(t, "docs/readme.md")
	store := newTestStore(t)
	abs := filepath.Join(inv.Root(), "docs", "readme.md")

	id, err := store.CreateTag("Important", "", "")
	if err != nil {
		t.Fatalf("creating tag: %v", err)
	}
	if err := store.AddTagToFile(abs, id); err != nil {
		t.Fatalf("tagging file: %v", err)
	}

	h := &FileInfoHandler{Inventory: inv, Store: store, Logger: testLogger()}
	result, _, err := h.Handle(context.Background(), nil, FileInfoArgs{Path: abs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "docs/readme.md") {
		t.Errorf("expected relative path, got:\n%s", text)
	}
	if !strings.Contains(text, "important") {
		t.Errorf("expected tag id, got:\n%s", text)
	}
	if !strings.Contains(text, "Size:") {
		t.Errorf("expected size line, got:\n%s", text)
	}
}

func Test_FileInfoHandler_NoTags(t *testing.T) {
	inv := newTestInventory(t, "plain.md")
	h := &FileInfoHandler{Inventory: inv, Store: newTestStore(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FileInfoArgs{
		Path: filepath.Join(inv.Root(), "plain.md"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "(none)") {
		t.Errorf("expected empty tag marker, got:\n%s", text)
	}
}
