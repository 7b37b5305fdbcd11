package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/tagstore"
)

// TagSearchArgs defines the input parameters for the filetag_tag_search tool.
type TagSearchArgs struct {
	Query string `json:"query" jsonschema:"Search query matched against tag names and descriptions. Quoted text matches as an exact phrase"`
}

// TagSearchHandler holds the dependencies for the tag search tool.
type TagSearchHandler struct {
	Store  *tagstore.Store
	Logger *slog.Logger
}

// Handle processes a filetag_tag_search request.
func (h *TagSearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TagSearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("filetag_tag_search called with empty query")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: query parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	ids, err := h.Store.Search(args.Query)
	if err != nil {
		h.Logger.Error("filetag_tag_search failed", "query", args.Query, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Search error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("filetag_tag_search",
		"query", args.Query,
		"results", len(ids),
		"elapsed", elapsed,
	)

	if len(ids) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "No tags matched."}},
		}, nil, nil
	}

	// Hits stay in relevance order, so no re-sort here.
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d tags:\n\n", len(ids)))
	for _, id := range ids {
		builder.WriteString("  ")
		builder.WriteString(id)
		if tag := h.Store.GetTag(id); tag != nil && tag.Name != id {
			builder.WriteString(fmt.Sprintf(" (%s)", tag.Name))
		}
		builder.WriteString("\n")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}
