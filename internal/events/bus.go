package events

import "sync"

// Kind identifies an event type on the bus.
type Kind string

const (
	KindWindowMoved   Kind = "window_moved"
	KindWindowResized Kind = "window_resized"
	KindWindowClosed  Kind = "window_closed"
	KindConfigChanged Kind = "config_changed"
	KindPanelToggled  Kind = "panel_toggled"
)

// Event is anything that can be published on the bus.
type Event interface {
	Kind() Kind
}

// Bus dispatches events to subscribers synchronously, on the publishing
// goroutine, in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]func(Event)
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]func(Event))}
}

// Subscribe registers fn for events of the given kind.
func (b *Bus) Subscribe(kind Kind, fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], fn)
}

// Publish delivers ev to every subscriber of its kind.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := b.handlers[ev.Kind()]
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// On registers a typed handler. The event kind is taken from E's zero value.
func On[E Event](b *Bus, fn func(E)) {
	var zero E
	b.Subscribe(zero.Kind(), func(ev Event) {
		if typed, ok := ev.(E); ok {
			fn(typed)
		}
	})
}
