package tools

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/inventory"
)

// FilesArgs defines the input parameters for the filetag_files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern over tracked relative paths (e.g. **/*.md or docs/*.py)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only file paths without metadata"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FilesHandler holds the dependencies for the files tool.
type FilesHandler struct {
	Inventory *inventory.Inventory
	Logger    *slog.Logger
}

// Handle processes a filetag_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("filetag_files called with empty pattern")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: pattern parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	rels, err := h.Inventory.GlobPaths(args.Pattern)
	if err != nil {
		h.Logger.Error("filetag_files failed", "pattern", args.Pattern, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Search error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}
	if len(rels) > maxResults {
		rels = rels[:maxResults]
	}

	root := h.Inventory.Root()
	entries := make([]FileEntry, 0, len(rels))
	for _, rel := range rels {
		entry := FileEntry{RelativePath: rel}
		if rec := h.Inventory.GetFileInfo(filepath.Join(root, filepath.FromSlash(rel))); rec != nil {
			entry.Size = rec.Size
			entry.Modified = rec.ModifiedTime
		}
		entries = append(entries, entry)
	}

	elapsed := time.Since(start)
	h.Logger.Info("filetag_files",
		"pattern", args.Pattern,
		"results", len(entries),
		"elapsed", elapsed,
	)

	output := FormatFileEntries(entries, args.NameOnly)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
