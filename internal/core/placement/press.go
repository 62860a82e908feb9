package placement

import (
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

var _ PointerSource = (*PressTracker)(nil)

// PressTracker turns raw pointer signals into a per-frame pressed flag.
// It is not safe for concurrent use; feed it from the frame goroutine.
type PressTracker struct {
	pressed  bool
	detached bool
	pos      physics.Vec2
	hasPos   bool
}

// NewPressTracker returns a tracker with an attached pointer device and no press.
func NewPressTracker() *PressTracker {
	return &PressTracker{}
}

// PressBegin marks the pointer as held at screen. Repeated calls only refresh
// the position.
func (p *PressTracker) PressBegin(screen physics.Vec2) {
	p.pressed = true
	p.pos = screen
	p.hasPos = true
}

// PressEnd releases the pointer. The last position is kept.
func (p *PressTracker) PressEnd() {
	p.pressed = false
}

// Move updates the pointer position without changing the press state.
func (p *PressTracker) Move(screen physics.Vec2) {
	p.pos = screen
	p.hasPos = true
}

// Detach records that no pointer device is available. A detached tracker
// never reports a press.
func (p *PressTracker) Detach() {
	p.detached = true
	p.pressed = false
}

// Attach records that a pointer device is available again.
func (p *PressTracker) Attach() {
	p.detached = false
}

// IsPressed reports whether the pointer is held. Always false while detached.
func (p *PressTracker) IsPressed() bool {
	return p.pressed && !p.detached
}

// Position returns the last known pointer position. It reports false before the
// first signal and while detached.
func (p *PressTracker) Position() (physics.Vec2, bool) {
	if p.detached {
		return physics.Vec2{}, false
	}
	return p.pos, p.hasPos
}
