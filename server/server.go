package server

import (
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/monitor"
	"github.com/mzalewski/filetag/tagstore"
	"github.com/mzalewski/filetag/tools"
)

// Setup creates and configures the MCP server with all tool registrations.
// mon may be nil when the server runs without live monitoring.
func Setup(inv *inventory.Inventory, store *tagstore.Store, mon *monitor.Monitor, logger *slog.Logger) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "filetag",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server exposes a live inventory of the files under a watched root, plus a hierarchical tag store over them. The inventory applies the project's include/exclude patterns and tracks metadata (size, created/modified times), updating automatically as files change.

Tool guide:
- Use filetag_files (glob) or filetag_find (name/size filters) to locate tracked files
- Use filetag_file_info for one file's metadata and tags
- Use filetag_tags, filetag_find_by_tags, and filetag_tag_search to work with tags
- Use filetag_rescan if the inventory looks stale (e.g. after bulk changes)
- Use filetag_status to inspect counts, patterns, and monitoring state`,
		},
	)

	start := time.Now()

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filetag_status",
		Description: "Show inventory status: tracked file/directory counts, size, tags, patterns, monitoring state, and uptime.",
	}, (&tools.StatusHandler{
		Inventory: inv,
		Store:     store,
		Monitor:   mon,
		StartTime: start,
		Logger:    logger,
	}).Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "filetag_files",
		Description: `Find tracked files by glob pattern over their relative paths.

Pattern examples:
  - "**/*.md" - all Markdown files
  - "docs/**/*.py" - Python files under docs/
  - "*.json" - JSON files in the root only`,
	}, (&tools.FilesHandler{Inventory: inv, Logger: logger}).Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "filetag_find",
		Description: `Find tracked files by basename pattern and/or size bounds.

Examples:
  - name "report_*" - files whose name starts with report_
  - minSize 1048576 - files of at least 1 MB`,
	}, (&tools.FindHandler{Inventory: inv, Logger: logger}).Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filetag_file_info",
		Description: "Show one tracked file's metadata (size, created/modified times) and its tags.",
	}, (&tools.FileInfoHandler{Inventory: inv, Store: store, Logger: logger}).Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filetag_tags",
		Description: "List all defined tags with their ids, display names, parents, and descriptions.",
	}, (&tools.TagsHandler{Store: store, Logger: logger}).Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filetag_find_by_tags",
		Description: "Find files carrying the given tags. With matchAll=true a file must carry every tag; otherwise any one suffices.",
	}, (&tools.FindByTagsHandler{Store: store, Logger: logger}).Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filetag_tag_search",
		Description: `Full-text search over tag names and descriptions. Quoted queries (e.g. "\"side project\"") match as exact phrases.`,
	}, (&tools.TagSearchHandler{Store: store, Logger: logger}).Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filetag_rescan",
		Description: "Rebuild the inventory from a full walk of the root. Clears tracked state and rescans from scratch.",
	}, (&tools.RescanHandler{Inventory: inv, Logger: logger}).Handle)

	return mcpServer
}
