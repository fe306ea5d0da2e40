package selection

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
)

// ViewID identifies the adapter that originated an event
type ViewID string

// NewViewID returns a fresh id for a view of the given kind, e.g. "tree-1a2b3c4d"
func NewViewID(kind string) ViewID {
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return ViewID(kind + "-" + short)
}

// Event announces that the selection in one view changed.
// Empty Keys means the selection was cleared.
type Event struct {
	Source ViewID
	Keys   []HitKey
}

// Cleared reports whether the event clears the selection
func (e Event) Cleared() bool {
	return len(e.Keys) == 0
}

// Listener receives selection events from a Bus
type Listener interface {
	ViewID() ViewID
	OnSelectionChanged(ev Event) error
}

// BusStats contains delivery counters for a bus
type BusStats struct {
	Published uint64
	Delivered uint64
	Failed    uint64
}

// BusOption configures a Bus
type BusOption func(*Bus)

// WithLogger sets the logger used for listener failures
func WithLogger(l *slog.Logger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// Bus fans selection events out to the views of one result window.
//
// A Bus is confined to the goroutine that owns the views (the UI goroutine);
// it does no locking. Publish runs every listener before returning, so no
// view ever observes a half-propagated selection. The bus keeps no history:
// a listener subscribed after an event does not receive it.
type Bus struct {
	listeners []Listener
	log       *slog.Logger
	stats     BusStats
}

// NewBus creates a new selection bus
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{log: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe appends l to the listener list. Subscribing the same listener
// twice is a no-op. Listeners are compared by identity, so they should be pointers.
func (b *Bus) Subscribe(l Listener) {
	if l == nil || b.indexOf(l) >= 0 {
		return
	}
	for _, other := range b.listeners {
		if other.ViewID() == l.ViewID() {
			b.log.Warn("selection: duplicate view id on bus", "view", l.ViewID())
			break
		}
	}
	b.listeners = append(b.listeners, l)
}

// Unsubscribe removes l if present
func (b *Bus) Unsubscribe(l Listener) {
	i := b.indexOf(l)
	if i < 0 {
		return
	}
	next := make([]Listener, 0, len(b.listeners)-1)
	next = append(next, b.listeners[:i]...)
	next = append(next, b.listeners[i+1:]...)
	b.listeners = next
}

// Len returns the number of subscribed listeners
func (b *Bus) Len() int {
	return len(b.listeners)
}

// Publish delivers ev to every listener except its source, in subscription order.
// A listener that fails or panics is logged and skipped; the remaining
// listeners still receive the event.
func (b *Bus) Publish(ev Event) {
	b.stats.Published++

	// Snapshot so listeners may (un)subscribe from inside a callback
	listeners := b.listeners
	for _, l := range listeners {
		if l.ViewID() == ev.Source {
			continue
		}
		if err := b.deliver(l, ev); err != nil {
			b.stats.Failed++
			b.log.Warn("selection: listener failed",
				"view", l.ViewID(),
				"source", ev.Source,
				"keys", len(ev.Keys),
				"error", err)
			continue
		}
		b.stats.Delivered++
	}
}

// Stats returns delivery counters
func (b *Bus) Stats() BusStats {
	return b.stats
}

func (b *Bus) deliver(l Listener, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return l.OnSelectionChanged(ev)
}

func (b *Bus) indexOf(l Listener) int {
	for i, other := range b.listeners {
		if other == l {
			return i
		}
	}
	return -1
}
