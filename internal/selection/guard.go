package selection

// Guard is a reentrancy latch. An adapter holds it while it applies a
// bus-driven update to its native widget so the widget's own change
// notification is not published back onto the bus.
// The guarded region never nests.
type Guard struct {
	held bool
}

// Enter acquires the latch. It returns false if the latch is already held.
func (g *Guard) Enter() bool {
	if g.held {
		return false
	}
	g.held = true
	return true
}

// Exit releases the latch
func (g *Guard) Exit() {
	g.held = false
}

// Held reports whether the latch is currently held
func (g *Guard) Held() bool {
	return g.held
}

// Do runs fn with the latch held and releases it on every exit path,
// including a panic inside fn. If the latch is already held fn is not run
// and Do returns false.
func (g *Guard) Do(fn func()) bool {
	if !g.Enter() {
		return false
	}
	defer g.Exit()
	fn()
	return true
}
