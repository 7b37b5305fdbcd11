package inventory

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Callback receives one notification. Callbacks run synchronously on the
// mutating goroutine while the inventory lock is held, so they must not call
// back into the inventory.
type Callback func(Notification)

// Bus fans notifications out to registered callbacks in registration order.
// A panicking callback is recovered and logged without affecting the rest.
type Bus struct {
	mu     sync.Mutex
	subs   []subscription
	logger *slog.Logger
}

type subscription struct {
	id uuid.UUID
	fn Callback
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Register adds cb and returns the token Unregister takes.
func (b *Bus) Register(cb Callback) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.New()
	b.subs = append(b.subs, subscription{id: id, fn: cb})
	return id
}

// Unregister removes the callback registered under id and reports whether it
// was present.
func (b *Bus) Unregister(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers n to every registered callback.
func (b *Bus) Publish(n Notification) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		b.deliver(sub, n)
	}
}

func (b *Bus) deliver(sub subscription, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("notification callback panicked",
				"type", n.Type.String(), "path", n.Path, "panic", r)
		}
	}()
	sub.fn(n)
}
