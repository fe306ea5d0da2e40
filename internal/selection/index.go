package selection

// Entry pairs a key with the native handle a view uses for it
type Entry[H comparable] struct {
	Key    HitKey
	Handle H
}

// ViewIndex maps keys to one view's native handles and back.
// It is rebuilt wholesale whenever the view's data changes; it is never patched.
type ViewIndex[H comparable] struct {
	byKey    map[HitKey]H
	byHandle map[H]HitKey
}

// NewViewIndex creates an empty index
func NewViewIndex[H comparable]() *ViewIndex[H] {
	return &ViewIndex[H]{
		byKey:    make(map[HitKey]H),
		byHandle: make(map[H]HitKey),
	}
}

// Rebuild replaces both maps with the given entries.
// Duplicate keys resolve to the last entry; the handle that lost its key is
// dropped so the two maps remain exact inverses.
func (ix *ViewIndex[H]) Rebuild(entries []Entry[H]) {
	byKey := make(map[HitKey]H, len(entries))
	byHandle := make(map[H]HitKey, len(entries))

	for _, e := range entries {
		if prev, ok := byKey[e.Key]; ok {
			delete(byHandle, prev)
		}
		if prevKey, ok := byHandle[e.Handle]; ok {
			delete(byKey, prevKey)
		}
		byKey[e.Key] = e.Handle
		byHandle[e.Handle] = e.Key
	}

	ix.byKey = byKey
	ix.byHandle = byHandle
}

// HandleFor returns the native handle for key
func (ix *ViewIndex[H]) HandleFor(key HitKey) (H, bool) {
	h, ok := ix.byKey[key]
	return h, ok
}

// KeyFor returns the key for a native handle
func (ix *ViewIndex[H]) KeyFor(h H) (HitKey, bool) {
	k, ok := ix.byHandle[h]
	return k, ok
}

// Len returns the number of indexed keys
func (ix *ViewIndex[H]) Len() int {
	return len(ix.byKey)
}
