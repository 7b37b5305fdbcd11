package tools

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/tagstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestInventory builds a scanned inventory over a temp root containing the
// given relative paths.
func newTestInventory(t *testing.T, names ...string) *inventory.Inventory {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating parent of %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("content of "+name), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	inv, err := inventory.New(inventory.Options{Root: root, Recursive: true, Logger: testLogger()})
	if err != nil {
		t.Fatalf("creating inventory: %v", err)
	}
	if err := inv.Scan(); err != nil {
		t.Fatalf("scanning: %v", err)
	}
	return inv
}

func newTestStore(t *testing.T) *tagstore.Store {
	t.Helper()
	store, err := tagstore.Open(filepath.Join(t.TempDir(), "tags.json"), testLogger())
	if err != nil {
		t.Fatalf("opening tag store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing tag store: %v", err)
		}
	})
	return store
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	return result.Content[0].(*mcp.TextContent).Text
}

func Test_FilesHandler_EmptyPattern(t *testing.T) {
	h := &FilesHandler{Inventory: newTestInventory(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty pattern")
	}
	if text := resultText(t, result); !strings.Contains(text, "pattern parameter is required") {
		t.Errorf("expected error message about empty pattern, got: %s", text)
	}
}

func Test_FilesHandler_GlobSearch(t *testing.T) {
	h := &FilesHandler{
		Inventory: newTestInventory(t, "docs/readme.md", "src/main.py"),
		Logger:    testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "**/*.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "docs/readme.md") {
		t.Errorf("expected result to contain docs/readme.md, got:\n%s", text)
	}
	if strings.Contains(text, "main.py") {
		t.Errorf("expected result to NOT contain main.py, got:\n%s", text)
	}
}

func Test_FilesHandler_InvalidPattern(t *testing.T) {
	h := &FilesHandler{Inventory: newTestInventory(t, "a.md"), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "[unterminated"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for an invalid glob")
	}
}

func Test_FilesHandler_NoResults(t *testing.T) {
	h := &FilesHandler{Inventory: newTestInventory(t, "a.md"), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "**/*.rs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success (no error), got error result")
	}
	if text := resultText(t, result); !strings.Contains(text, "No files matched") {
		t.Errorf("expected 'No files matched', got:\n%s", text)
	}
}

func Test_FilesHandler_MaxResultsTruncates(t *testing.T) {
	h := &FilesHandler{
		Inventory: newTestInventory(t, "a.md", "b.md", "c.md"),
		Logger:    testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, FilesArgs{Pattern: "*.md", MaxResults: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Found 2 files") {
		t.Errorf("expected truncation to 2 results, got:\n%s", text)
	}
	if strings.Contains(text, "c.md") {
		t.Errorf("expected c.md to be cut off, got:\n%s", text)
	}
}
