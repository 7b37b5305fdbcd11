package tools

import (
	"context"
	"strings"
	"testing"
)

func Test_TagsHandler_Empty(t *testing.T) {
	h := &TagsHandler{Store: newTestStore(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, TagsArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "No tags defined") {
		t.Errorf("expected empty-store message, got: %s", text)
	}
}

func Test_TagsHandler_ListsSortedWithParents(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.CreateTag("Zulu", "last by id", ""); err != nil {
		t.Fatalf("creating tag: %v", err)
	}
	parent, err := store.CreateTag("Alpha", "", "")
	if err != nil {
		t.Fatalf("creating tag: %v", err)
	}
	if _, err := store.CreateTag("Beta", "", parent); err != nil {
		t.Fatalf("creating tag: %v", err)
	}

	h := &TagsHandler{Store: store, Logger: testLogger()}
	result, _, err := h.Handle(context.Background(), nil, TagsArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Found 3 tags") {
		t.Errorf("expected count header, got:\n%s", text)
	}
	if !strings.Contains(text, "parent: alpha") {
		t.Errorf("expected parent annotation on beta, got:\n%s", text)
	}
	if !strings.Contains(text, "last by id") {
		t.Errorf("expected description line, got:\n%s", text)
	}
	if strings.Index(text, "alpha") > strings.Index(text, "zulu") {
		t.Errorf("expected ids in sorted order, got:\n%s", text)
	}
}
