package tools

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/tagstore"
)

// TagsArgs defines the input parameters for the filetag_tags tool (none required).
type TagsArgs struct{}

// TagsHandler holds the dependencies for the tags tool.
type TagsHandler struct {
	Store  *tagstore.Store
	Logger *slog.Logger
}

// Handle processes a filetag_tags request.
func (h *TagsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TagsArgs) (*mcp.CallToolResult, any, error) {
	tags := h.Store.AllTags()
	h.Logger.Info("filetag_tags", "count", len(tags))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatTags(tags)}},
	}, nil, nil
}
