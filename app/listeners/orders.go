// Package listeners subscribes side effects to order lifecycle events.
package listeners

import (
	"github.com/shashiranjanraj/pizzeria/app/services"
	"github.com/shashiranjanraj/pizzeria/pkg/event"
	"github.com/shashiranjanraj/pizzeria/pkg/logger"
	"github.com/shashiranjanraj/pizzeria/pkg/metrics"
)

// Publisher pushes a payload to live subscribers.
type Publisher interface {
	Publish(v interface{})
}

// RegisterOrderListeners counts every order event and forwards it to feed
// off the request path. feed may be nil.
func RegisterOrderListeners(bus *event.Bus, feed Publisher) {
	names := []string{event.OrderCreated, event.OrderCancelled, event.OrderDeleted}

	bus.Listen(func(name string, payload interface{}) {
		ev, ok := payload.(services.OrderEvent)
		if !ok {
			logger.Warn("listeners: unexpected order payload", "event", name)
			return
		}
		metrics.OrderEvents.WithLabelValues(name, ev.Order.OrderType).Inc()
	}, names...)

	if feed != nil {
		bus.ListenAsync(func(_ string, payload interface{}) {
			feed.Publish(payload)
		}, names...)
	}
}
