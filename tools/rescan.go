package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/inventory"
)

// RescanArgs defines the input parameters for the filetag_rescan tool.
type RescanArgs struct{}

// RescanHandler holds the dependencies for the rescan tool.
type RescanHandler struct {
	Inventory *inventory.Inventory
	Logger    *slog.Logger
}

// Handle processes a filetag_rescan request.
func (h *RescanHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RescanArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("filetag_rescan started")
	start := time.Now()

	if err := h.Inventory.Scan(); err != nil {
		h.Logger.Error("filetag_rescan failed", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Rescan error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	fileCount := h.Inventory.Len()
	dirCount := len(h.Inventory.Directories())

	h.Logger.Info("filetag_rescan complete",
		"files", fileCount,
		"directories", dirCount,
		"elapsed", elapsed,
	)

	output := fmt.Sprintf("rescanned: %d files, %d directories in %s", fileCount, dirCount, elapsed)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
