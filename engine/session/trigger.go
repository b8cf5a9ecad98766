package session

// Trigger detects the outside to inside transition of a region.
type Trigger struct {
	wasInside bool
}

// Enter records whether the player is inside the region this frame and
// reports true only on the frame the player entered it.
func (t *Trigger) Enter(inside bool) bool {
	fired := inside && !t.wasInside
	t.wasInside = inside
	return fired
}

// Inside reports the state recorded on the previous frame.
func (t *Trigger) Inside() bool {
	return t.wasInside
}
