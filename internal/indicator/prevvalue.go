package indicator

// PrevValue wraps a single per-entity parameter to expose both its
// current and previous-tick value (the "Previous value accessor"). Set
// publishes a new current value; Snapshot copies cur into prev and is
// invoked once per tick, after the Signal phase, so that next tick's
// read of Prev returns this tick's Cur.
type PrevValue struct {
	cur  float32
	prev float32
}

// Cur returns this tick's value.
func (v *PrevValue) Cur() float32 { return v.cur }

// Prev returns last tick's value.
func (v *PrevValue) Prev() float32 { return v.prev }

// Set publishes a new current value; it does not touch Prev.
func (v *PrevValue) Set(value float32) { v.cur = value }

// Snapshot copies Cur into Prev. Called once per tick by the auxiliary
// snapshot system registered alongside an indicator, not by
// indicator.Update itself.
func (v *PrevValue) Snapshot() { v.prev = v.cur }

// CrossesFromAbove reports whether the tracked value just crossed down
// through v: prev >= threshold && cur < threshold. Inclusive on prev,
// deliberate equality handling.
func (v *PrevValue) CrossesFromAbove(threshold float32) bool {
	return v.prev >= threshold && v.cur < threshold
}

// CrossesFromBelow reports whether the tracked value just crossed up
// through v: prev < threshold && cur >= threshold. Inclusive on cur.
func (v *PrevValue) CrossesFromBelow(threshold float32) bool {
	return v.prev < threshold && v.cur >= threshold
}
