//go:build linux

package inventory

import (
	"os"
	"syscall"
	"time"
)

// createdTime extracts a creation timestamp from the stat data. Linux
// exposes no birth time through os.FileInfo, so ctime stands in for it.
func createdTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
	}
	return info.ModTime()
}
