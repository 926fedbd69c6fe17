// Package event is a small in-process publish/subscribe bus. Order
// lifecycle changes are fired here; metrics and the live websocket feed
// listen.
package event

import (
	"sync"

	"github.com/shashiranjanraj/pizzeria/pkg/logger"
)

const (
	OrderCreated   = "order.created"
	OrderCancelled = "order.cancelled"
	OrderDeleted   = "order.deleted"
)

// Handler receives an event name and its payload.
type Handler func(name string, payload interface{})

type listener struct {
	h     Handler
	async bool
}

// Bus dispatches named events to registered handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]listener
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]listener{}}
}

// Listen registers h for each of names. h runs inside Fire.
func (b *Bus) Listen(h Handler, names ...string) {
	b.add(listener{h: h}, names)
}

// ListenAsync registers h to run on its own goroutine, so Fire does not
// wait for it.
func (b *Bus) ListenAsync(h Handler, names ...string) {
	b.add(listener{h: h, async: true}, names)
}

func (b *Bus) add(l listener, names []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		b.handlers[n] = append(b.handlers[n], l)
	}
}

func (b *Bus) snapshot(name string) []listener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ls := make([]listener, len(b.handlers[name]))
	copy(ls, b.handlers[name])
	return ls
}

// Fire dispatches name to every listener. A panicking listener is logged
// and does not stop the others.
func (b *Bus) Fire(name string, payload interface{}) {
	for _, l := range b.snapshot(name) {
		if l.async {
			go call(l.h, name, payload)
			continue
		}
		call(l.h, name, payload)
	}
}

func call(h Handler, name string, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event: listener panicked", "event", name, "panic", r)
		}
	}()
	h(name, payload)
}
