package inventory

import (
	"math"
	"time"
)

// FileRecord is the metadata snapshot for one tracked file. Records are
// created on scan or on an accepted create, replaced wholesale on modify,
// and removed on delete, move-out or reclassification to excluded.
type FileRecord struct {
	Size         int64
	CreatedTime  time.Time
	ModifiedTime time.Time
	RelativePath string
}

// epochSeconds converts t to the float epoch-seconds form used in the
// persisted snapshot.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func timeFromEpoch(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
