package monitor

import (
	"sync"
	"time"
)

// persistDebouncer batches snapshot writes: each schedule resets the timer,
// so a burst of events costs one save after the burst settles.
type persistDebouncer struct {
	mu       sync.Mutex
	interval time.Duration
	save     func() error
	onErr    func(error)
	timer    *time.Timer
	pending  bool
}

func newPersistDebouncer(interval time.Duration, save func() error, onErr func(error)) *persistDebouncer {
	return &persistDebouncer{
		interval: interval,
		save:     save,
		onErr:    onErr,
	}
}

func (d *persistDebouncer) schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// flush persists outside the lock so a slow write never stalls schedule.
func (d *persistDebouncer) flush() {
	d.mu.Lock()
	dirty := d.pending
	d.pending = false
	d.mu.Unlock()
	if !dirty {
		return
	}
	if err := d.save(); err != nil {
		d.onErr(err)
	}
}

// stop cancels the timer and flushes anything still pending.
func (d *persistDebouncer) stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.flush()
}
