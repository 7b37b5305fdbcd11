//go:build !linux && !windows

package inventory

import (
	"os"
	"time"
)

// createdTime falls back to the modification time on platforms without a
// stat field this package knows how to read.
func createdTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
