package tools

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mzalewski/filetag/inventory"
	"github.com/mzalewski/filetag/tagstore"
)

// FileEntry is one row of a file listing.
type FileEntry struct {
	RelativePath string
	Size         int64
	Modified     time.Time
}

// FormatFileEntries formats a file listing as human-readable text.
func FormatFileEntries(entries []FileEntry, nameOnly bool) string {
	if len(entries) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(entries)))

	for _, entry := range entries {
		if nameOnly {
			builder.WriteString(entry.RelativePath)
			builder.WriteString("\n")
		} else {
			builder.WriteString(fmt.Sprintf("  %s  (%s, modified %s)\n",
				entry.RelativePath,
				formatFileSize(entry.Size),
				formatTime(entry.Modified),
			))
		}
	}

	return builder.String()
}

// FormatPathList formats a plain list of paths with a count header.
func FormatPathList(paths []string) string {
	if len(paths) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(paths)))
	for _, path := range paths {
		builder.WriteString("  ")
		builder.WriteString(path)
		builder.WriteString("\n")
	}

	return builder.String()
}

// FormatFileDetails formats a single tracked file's record with its tags.
func FormatFileDetails(path string, rec *inventory.FileRecord, tags []string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s ──\n", rec.RelativePath))
	builder.WriteString(fmt.Sprintf("Path:     %s\n", path))
	builder.WriteString(fmt.Sprintf("Size:     %s\n", formatFileSize(rec.Size)))
	builder.WriteString(fmt.Sprintf("Created:  %s\n", formatTime(rec.CreatedTime)))
	builder.WriteString(fmt.Sprintf("Modified: %s\n", formatTime(rec.ModifiedTime)))
	if len(tags) > 0 {
		builder.WriteString(fmt.Sprintf("Tags:     %s\n", strings.Join(tags, ", ")))
	} else {
		builder.WriteString("Tags:     (none)\n")
	}
	return builder.String()
}

// FormatTags formats the tag table sorted by id.
func FormatTags(tags map[string]tagstore.Tag) string {
	if len(tags) == 0 {
		return "No tags defined."
	}

	ids := make([]string, 0, len(tags))
	for id := range tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d tags:\n\n", len(tags)))
	for _, id := range ids {
		tag := tags[id]
		builder.WriteString("  ")
		builder.WriteString(id)
		if tag.Name != id {
			builder.WriteString(fmt.Sprintf(" (%s)", tag.Name))
		}
		if tag.Parent != "" {
			builder.WriteString(fmt.Sprintf("  parent: %s", tag.Parent))
		}
		builder.WriteString("\n")
		if tag.Description != "" {
			builder.WriteString(fmt.Sprintf("      %s\n", tag.Description))
		}
	}

	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
