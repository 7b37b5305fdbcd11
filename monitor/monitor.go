// Package monitor drives the live reconciliation loop: a polling filesystem
// watcher feeds decoded events into the inventory, with optional config hot
// reload and snapshot write batching.
package monitor

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/radovskyb/watcher"

	"github.com/mzalewski/filetag/inventory"
)

// Options configures a Monitor.
type Options struct {
	// Interval is the polling cadence. Defaults to 500ms.
	Interval time.Duration

	// PersistDebounce coalesces snapshot writes during event bursts. Zero
	// keeps the write-through behavior of one persist per mutation.
	PersistDebounce time.Duration

	// ConfigDir, when non-empty, arms hot reload of config.yaml and the
	// root's .gitignore.
	ConfigDir string

	Logger *slog.Logger
}

// Monitor owns the watcher feed and the single worker goroutine that applies
// events to the inventory.
type Monitor struct {
	inv    *inventory.Inventory
	opts   Options
	logger *slog.Logger
	errs   chan error

	mu      sync.Mutex
	w       *watcher.Watcher
	reload  *configReloader
	saver   *persistDebouncer
	wg      sync.WaitGroup
	started bool
}

func New(inv *inventory.Inventory, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Monitor{
		inv:    inv,
		opts:   opts,
		logger: opts.Logger,
		errs:   make(chan error, 16),
	}
}

// Active reports whether the monitor is currently watching.
func (m *Monitor) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Errors surfaces watcher failures and persist failures from the event path,
// where no caller is available to receive them. Sends never block; when the
// buffer is full the error is only logged.
func (m *Monitor) Errors() <-chan error {
	return m.errs
}

// Start arms the polling watcher and the worker goroutine. Calling Start on
// a running monitor is a no-op.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}

	w := watcher.New()
	w.IgnoreHiddenFiles(false)
	w.FilterOps(watcher.Create, watcher.Write, watcher.Remove, watcher.Rename, watcher.Move)
	if m.inv.Recursive() {
		if err := w.AddRecursive(m.inv.Root()); err != nil {
			return fmt.Errorf("watching %s: %w", m.inv.Root(), err)
		}
	} else {
		if err := w.Add(m.inv.Root()); err != nil {
			return fmt.Errorf("watching %s: %w", m.inv.Root(), err)
		}
	}

	if m.opts.PersistDebounce > 0 {
		m.saver = newPersistDebouncer(m.opts.PersistDebounce, m.inv.Save, m.reportError)
		m.inv.SetAutoPersist(false)
	}

	m.w = w
	m.wg.Add(1)
	go m.consume(w)

	go func() {
		if err := w.Start(m.opts.Interval); err != nil {
			m.reportError(fmt.Errorf("starting watcher: %w", err))
		}
	}()
	w.Wait()

	if m.opts.ConfigDir != "" {
		reload, err := newConfigReloader(m.opts.ConfigDir, m.inv, m.logger)
		if err != nil {
			m.logger.Warn("config hot reload unavailable", "error", err)
		} else {
			m.reload = reload
		}
	}

	m.started = true
	m.logger.Info("monitoring started",
		"root", m.inv.Root(), "interval", m.opts.Interval, "recursive", m.inv.Recursive())
	return nil
}

// Stop closes the feed and blocks until the worker drains, then flushes any
// batched persist. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}

	if m.reload != nil {
		m.reload.close()
		m.reload = nil
	}
	m.w.Close()
	m.wg.Wait()
	if m.saver != nil {
		m.saver.stop()
		m.inv.SetAutoPersist(true)
		m.saver = nil
	}
	m.w = nil
	m.started = false
	m.logger.Info("monitoring stopped", "root", m.inv.Root())
}

func (m *Monitor) consume(w *watcher.Watcher) {
	defer m.wg.Done()
	for {
		select {
		case ev := <-w.Event:
			m.handle(ev)
		case err := <-w.Error:
			m.reportError(fmt.Errorf("watcher: %w", err))
		case <-w.Closed:
			return
		}
	}
}

func (m *Monitor) handle(ev watcher.Event) {
	decoded, ok := translate(ev)
	if !ok {
		return
	}
	changed, err := m.inv.Apply(decoded)
	if err != nil {
		m.reportError(err)
		return
	}
	if changed && m.saver != nil {
		m.saver.schedule()
	}
}

// translate decodes a native watcher event into a reconciliation event.
// Chmod and unknown ops are dropped.
func translate(ev watcher.Event) (inventory.Event, bool) {
	out := inventory.Event{Path: ev.Path}
	if ev.FileInfo != nil {
		out.IsDir = ev.IsDir()
	}
	switch ev.Op {
	case watcher.Create:
		out.Kind = inventory.EventCreated
	case watcher.Write:
		out.Kind = inventory.EventModified
	case watcher.Remove:
		out.Kind = inventory.EventDeleted
	case watcher.Rename, watcher.Move:
		out.Kind = inventory.EventMoved
		out.OldPath = ev.OldPath
	default:
		return inventory.Event{}, false
	}
	return out, true
}

func (m *Monitor) reportError(err error) {
	m.logger.Error("monitor error", "error", err)
	select {
	case m.errs <- err:
	default:
	}
}
