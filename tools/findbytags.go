package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/tagstore"
)

// FindByTagsArgs defines the input parameters for the filetag_find_by_tags tool.
type FindByTagsArgs struct {
	Tags     []string `json:"tags" jsonschema:"Tag ids to match (e.g. [\"backend\",\"docs\"])"`
	MatchAll bool     `json:"matchAll,omitempty" jsonschema:"If true files must carry every listed tag; otherwise any one suffices"`
}

// FindByTagsHandler holds the dependencies for the find-by-tags tool.
type FindByTagsHandler struct {
	Store  *tagstore.Store
	Logger *slog.Logger
}

// Handle processes a filetag_find_by_tags request.
func (h *FindByTagsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FindByTagsArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if len(args.Tags) == 0 {
		h.Logger.Warn("filetag_find_by_tags called with no tags")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: tags parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	paths, err := h.Store.FindFilesByTags(args.Tags, args.MatchAll)
	if err != nil {
		h.Logger.Error("filetag_find_by_tags failed", "tags", args.Tags, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Lookup error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("filetag_find_by_tags",
		"tags", args.Tags,
		"matchAll", args.MatchAll,
		"results", len(paths),
		"elapsed", elapsed,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatPathList(paths)}},
	}, nil, nil
}
