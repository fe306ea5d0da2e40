package selection

import "log/slog"

// NativeView is the part of a toolkit widget an adapter drives.
// Widgets may fire the change callback synchronously from inside
// SetSelection or ClearSelection.
type NativeView[H comparable] interface {
	SetSelection(handles []H)
	ClearSelection()
	OnSelectionChanged(fn func(handles []H))
}

// Scroller is implemented by views that can bring a handle into view
type Scroller[H comparable] interface {
	ScrollTo(h H)
}

type adapterConfig struct {
	single bool
	scroll bool
	log    *slog.Logger
}

// AdapterOption configures an Adapter
type AdapterOption func(*adapterConfig)

// SingleValued marks the view as able to show only one HSP at a time.
// More than one selected key degrades to an empty selection in both directions.
func SingleValued() AdapterOption {
	return func(c *adapterConfig) { c.single = true }
}

// WithoutScroll disables scroll-to-visible on inbound single selections
func WithoutScroll() AdapterOption {
	return func(c *adapterConfig) { c.scroll = false }
}

// WithAdapterLogger sets the adapter's logger
func WithAdapterLogger(l *slog.Logger) AdapterOption {
	return func(c *adapterConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// Adapter translates between one view's native selection and the bus.
//
// Outbound: the widget's change notification is mapped to keys and published.
// Inbound: bus events are mapped to native handles and applied to the widget
// while the adapter's guard is held, which suppresses the widget's echo.
type Adapter[H comparable] struct {
	id    ViewID
	bus   *Bus
	view  NativeView[H]
	index *ViewIndex[H]
	guard Guard
	cfg   adapterConfig
}

// NewAdapter wires view into bus. kind names the view family in its ViewID.
func NewAdapter[H comparable](kind string, bus *Bus, view NativeView[H], opts ...AdapterOption) *Adapter[H] {
	cfg := adapterConfig{scroll: true, log: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Adapter[H]{
		id:    NewViewID(kind),
		bus:   bus,
		view:  view,
		index: NewViewIndex[H](),
		cfg:   cfg,
	}

	view.OnSelectionChanged(a.HandleNative)
	bus.Subscribe(a)
	return a
}

// ViewID implements Listener
func (a *Adapter[H]) ViewID() ViewID {
	return a.id
}

// Index returns the adapter's key index
func (a *Adapter[H]) Index() *ViewIndex[H] {
	return a.index
}

// Guard exposes the reentrancy latch, mainly for tests
func (a *Adapter[H]) Guard() *Guard {
	return &a.guard
}

// Rebuild replaces the index after the view's data was swapped
func (a *Adapter[H]) Rebuild(entries []Entry[H]) {
	a.index.Rebuild(entries)
}

// Close removes the adapter from its bus
func (a *Adapter[H]) Close() {
	a.bus.Unsubscribe(a)
}

// HandleNative is the widget's selection-changed callback
func (a *Adapter[H]) HandleNative(handles []H) {
	if a.guard.Held() {
		return
	}

	keys := a.keysFor(handles)
	if a.cfg.single && len(keys) > 1 {
		keys = nil
	}

	a.bus.Publish(Event{Source: a.id, Keys: keys})
}

// OnSelectionChanged implements Listener
func (a *Adapter[H]) OnSelectionChanged(ev Event) error {
	a.guard.Do(func() {
		handles := a.handlesFor(ev.Keys)
		if a.cfg.single && len(handles) > 1 {
			handles = nil
		}

		if len(handles) == 0 {
			a.view.ClearSelection()
			return
		}

		a.view.SetSelection(handles)

		if len(handles) == 1 && a.cfg.scroll {
			if s, ok := a.view.(Scroller[H]); ok {
				s.ScrollTo(handles[0])
			}
		}
	})
	return nil
}

func (a *Adapter[H]) keysFor(handles []H) []HitKey {
	keys := make([]HitKey, 0, len(handles))
	seen := make(map[HitKey]bool, len(handles))
	for _, h := range handles {
		k, ok := a.index.KeyFor(h)
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	if dropped := len(handles) - len(keys); dropped > 0 {
		a.cfg.log.Debug("selection: handles without key", "view", a.id, "dropped", dropped)
	}
	return keys
}

func (a *Adapter[H]) handlesFor(keys []HitKey) []H {
	handles := make([]H, 0, len(keys))
	for _, k := range keys {
		if h, ok := a.index.HandleFor(k); ok {
			handles = append(handles, h)
		}
	}
	return handles
}
