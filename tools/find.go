package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/inventory"
)

// FindArgs defines the input parameters for the filetag_find tool.
type FindArgs struct {
	Name       string `json:"name,omitempty" jsonschema:"Filename pattern matched against basenames (e.g. *.md or report_*)"`
	MinSize    int64  `json:"minSize,omitempty" jsonschema:"Minimum file size in bytes"`
	MaxSize    int64  `json:"maxSize,omitempty" jsonschema:"Maximum file size in bytes"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FindHandler holds the dependencies for the find tool.
type FindHandler struct {
	Inventory *inventory.Inventory
	Logger    *slog.Logger
}

// Handle processes a filetag_find request.
func (h *FindHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FindArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Name == "" && args.MinSize == 0 && args.MaxSize == 0 {
		h.Logger.Warn("filetag_find called without filters")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: at least one of name, minSize, or maxSize is required"}},
			IsError: true,
		}, nil, nil
	}

	filter := inventory.FindFilter{Name: args.Name}
	if args.MinSize > 0 {
		filter.MinSize = &args.MinSize
	}
	if args.MaxSize > 0 {
		filter.MaxSize = &args.MaxSize
	}

	paths := h.Inventory.Find(filter)
	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}
	if len(paths) > maxResults {
		paths = paths[:maxResults]
	}

	elapsed := time.Since(start)
	h.Logger.Info("filetag_find",
		"name", args.Name,
		"results", len(paths),
		"elapsed", elapsed,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatPathList(paths)}},
	}, nil, nil
}
