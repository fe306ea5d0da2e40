package widgets

// selectionSet is the selected handles of a widget in insertion order.
// Every mutation fires the widget's change callback synchronously, the way
// toolkit selection models do, including programmatic changes.
type selectionSet[H comparable] struct {
	items    []H
	has      map[H]bool
	onChange func([]H)
}

func newSelectionSet[H comparable]() selectionSet[H] {
	return selectionSet[H]{has: make(map[H]bool)}
}

func (s *selectionSet[H]) contains(h H) bool {
	return s.has[h]
}

func (s *selectionSet[H]) list() []H {
	return append([]H(nil), s.items...)
}

func (s *selectionSet[H]) len() int {
	return len(s.items)
}

// replace sets the selection to exactly handles and notifies
func (s *selectionSet[H]) replace(handles []H) {
	items := make([]H, 0, len(handles))
	has := make(map[H]bool, len(handles))
	for _, h := range handles {
		if has[h] {
			continue
		}
		has[h] = true
		items = append(items, h)
	}
	s.items, s.has = items, has
	s.fire()
}

// toggle adds or removes h and notifies
func (s *selectionSet[H]) toggle(h H) {
	if s.has[h] {
		delete(s.has, h)
		for i, item := range s.items {
			if item == h {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
	} else {
		s.has[h] = true
		s.items = append(s.items, h)
	}
	s.fire()
}

// add extends the selection with h and notifies
func (s *selectionSet[H]) add(h H) {
	if !s.has[h] {
		s.has[h] = true
		s.items = append(s.items, h)
	}
	s.fire()
}

func (s *selectionSet[H]) clear() {
	s.replace(nil)
}

// reset drops the selection without notifying; used when the data is swapped
func (s *selectionSet[H]) reset() {
	s.items = nil
	s.has = make(map[H]bool)
}

func (s *selectionSet[H]) fire() {
	if s.onChange != nil {
		s.onChange(s.list())
	}
}

// clamp limits i to a valid index of a list of length n
func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
