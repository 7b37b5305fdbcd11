package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/mzalewski/filetag/inventory"
)

// Console color scheme. fatih/color disables itself automatically when
// stdout is not a terminal.
var (
	successColor = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	labelColor   = color.New(color.FgCyan)
)

// notificationColor picks the display color for a change type.
func notificationColor(t inventory.NotificationType) *color.Color {
	switch t {
	case inventory.NotifyCreated, inventory.NotifyDirCreated:
		return successColor
	case inventory.NotifyDeleted, inventory.NotifyDirDeleted:
		return failColor
	case inventory.NotifyModified:
		return warnColor
	default:
		return labelColor
	}
}

// formatNotification renders one change line for the watch display. The label
// column is padded to fit "directory_created".
func formatNotification(n inventory.Notification, colorize bool) string {
	label := fmt.Sprintf("%-17s", n.Type.String())
	if colorize {
		label = notificationColor(n.Type).Sprint(label)
	}
	if n.Dest != "" {
		return fmt.Sprintf("%s %s -> %s", label, n.Path, n.Dest)
	}
	return fmt.Sprintf("%s %s", label, n.Path)
}
