package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mzalewski/filetag/rules"
)

func Test_StatusHandler_ReportsCounts(t *testing.T) {
	inv := newTestInventory(t, "a.md", "docs/b.md")
	store := newTestStore(t)
	if _, err := store.CreateTag("Docs", "", ""); err != nil {
		t.Fatalf("creating tag: %v", err)
	}

	h := &StatusHandler{
		Inventory: inv,
		Store:     store,
		StartTime: time.Now().Add(-90 * time.Second),
		Logger:    testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	for _, want := range []string{
		"Root directory: " + inv.Root(),
		"Tracked files: 2",
		"Tags: 1",
		"Monitoring: inactive",
		"Recursive: true",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected status to contain %q, got:\n%s", want, text)
		}
	}
}

func Test_StatusHandler_ListsPatterns(t *testing.T) {
	inv := newTestInventory(t)
	inv.SetRules(rules.Parse([]string{"md", "py", "!build/*"}))

	h := &StatusHandler{
		Inventory: inv,
		Store:     newTestStore(t),
		StartTime: time.Now(),
		Logger:    testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "*.md, *.py") {
		t.Errorf("expected include patterns, got:\n%s", text)
	}
	if !strings.Contains(text, "!build/*") {
		t.Errorf("expected exclude patterns, got:\n%s", text)
	}
}

func Test_FormatDuration_Ranges(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{150 * time.Second, "2m30s"},
		{3*time.Hour + 5*time.Minute, "3h5m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Errorf("formatDuration(%s): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
