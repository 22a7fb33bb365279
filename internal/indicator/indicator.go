// Package indicator implements the streaming indicator framework:
// indicators are per-entity components that consume a Reader bound to
// one input field and maintain state in place, never recomputing over
// the whole history.
package indicator

import "github.com/atlas-desktop/backtest-engine/internal/input"

// Indicator is one streaming indicator's contract. Init and Update both
// take the same Reader the indicator was built against.
type Indicator interface {
	// Init consumes the warm-up window starting at index 1 and returns the
	// first index at which Update may be called (period+1 for RSI,
	// generalized here to any indicator's own warm-up length).
	Init(r input.Reader) int
	// Update advances the indicator's state to offset and returns its
	// output at that offset.
	Update(r input.Reader, offset int) float32
}

// Binding pairs one Indicator with the Reader it was built against and
// the PrevValue slot its output is published through. One Binding exists
// per (account, indicator) pair.
type Binding struct {
	Name      string
	Indicator Indicator
	Reader    input.Reader
	Value     PrevValue

	// ownStart caches this binding's own Init return value so catch_up
	// doesn't need to call Init a second time.
	ownStart int
}
