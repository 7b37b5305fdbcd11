package tools

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/tagstore"
)

// FileInfoArgs defines the input parameters for the filetag_file_info tool.
type FileInfoArgs struct {
	Path string `json:"path" jsonschema:"Path of the tracked file (absolute or relative to the working directory)"`
}

// FileInfoHandler holds the dependencies for the file info tool.
type FileInfoHandler struct {
	Inventory *inventory.Inventory
	Store     *tagstore.Store
	Logger    *slog.Logger
}

// Handle processes a filetag_file_info request.
func (h *FileInfoHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FileInfoArgs) (*mcp.CallToolResult, any, error) {
	if args.Path == "" {
		h.Logger.Warn("filetag_file_info called with empty path")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: path parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	abs, err := filepath.Abs(args.Path)
	if err != nil {
		abs = args.Path
	}

	rec := h.Inventory.GetFileInfo(abs)
	if rec == nil {
		h.Logger.Info("filetag_file_info miss", "path", abs)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: file not tracked: %s", abs)}},
			IsError: true,
		}, nil, nil
	}

	var tags []string
	if h.Store != nil {
		tags = h.Store.FileTags(abs)
	}

	h.Logger.Info("filetag_file_info", "path", abs, "tags", len(tags))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatFileDetails(abs, rec, tags)}},
	}, nil, nil
}
