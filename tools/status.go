package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/monitor"
	"github.com/mzalewski/filetag/tagstore"
)

// StatusArgs defines the input parameters for the filetag_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Inventory *inventory.Inventory
	Store     *tagstore.Store
	Monitor   *monitor.Monitor
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a filetag_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	files := h.Inventory.Files()
	dirs := h.Inventory.Directories()
	ruleSet := h.Inventory.Rules()
	uptime := time.Since(h.StartTime)

	var totalSize int64
	for _, rec := range files {
		totalSize += rec.Size
	}

	tagCount := 0
	if h.Store != nil {
		tagCount = len(h.Store.AllTags())
	}

	watching := h.Monitor != nil && h.Monitor.Active()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("filetag_status",
		"files", len(files),
		"directories", len(dirs),
		"tags", tagCount,
		"uptime", uptime,
	)

	var builder strings.Builder
	builder.WriteString("=== filetag Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.Inventory.Root()))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Tracked files: %d\n", len(files)))
	builder.WriteString(fmt.Sprintf("Tracked directories: %d\n", len(dirs)))
	builder.WriteString(fmt.Sprintf("Total tracked size: %s\n", formatFileSize(totalSize)))
	builder.WriteString(fmt.Sprintf("Tags: %d\n", tagCount))
	if watching {
		builder.WriteString("Monitoring: active\n")
	} else {
		builder.WriteString("Monitoring: inactive\n")
	}
	builder.WriteString(fmt.Sprintf("Include patterns: %s\n", strings.Join(ruleSet.Include, ", ")))
	if len(ruleSet.Exclude) > 0 {
		builder.WriteString(fmt.Sprintf("Exclude patterns: %s\n", strings.Join(ruleSet.Exclude, ", ")))
	}
	builder.WriteString(fmt.Sprintf("Recursive: %v\n", h.Inventory.Recursive()))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
