package diag

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Bus is a concurrency-safe synchronous fan-out of diagnostics to subscribers.
// All subscribers are invoked sequentially during Record.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]func(Diagnostic)
	nextId      uint64
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[uint64]func(Diagnostic)),
	}
}

// Subscribe registers fn for every recorded diagnostic. It returns an
// unsubscribe function that removes the subscriber when called.
func (b *Bus) Subscribe(fn func(Diagnostic)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextId++
	id := b.nextId
	b.subscribers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
	}
}

// Record implements Recorder. Recording never fails: a panicking subscriber is
// recovered and logged, and the remaining subscribers still run.
func (b *Bus) Record(d Diagnostic) {
	if d.Time.IsZero() {
		d.Time = time.Now()
	}

	b.mu.RLock()
	// Copy subscribers to avoid holding the lock during invocation
	handlers := make([]func(Diagnostic), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("diagnostics subscriber panicked on %s: %v", d.Kind, r)
				}
			}()
			fn(d)
		}()
	}
}
