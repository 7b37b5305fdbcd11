//go:build windows

package inventory

import (
	"os"
	"syscall"
	"time"
)

// createdTime extracts the creation timestamp from the file attribute data.
func createdTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, stat.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
