package indicator

import "github.com/atlas-desktop/backtest-engine/internal/input"

// RSI is the rolling-mean relative strength index: avg_gain and avg_loss
// are maintained incrementally rather than recomputed over the full
// window each tick. Subtract-then-add is faster but accumulates float32
// rounding error over very long runs — a known tradeoff, not a bug to
// fix silently.
type RSI struct {
	Period int

	periodF32 float32
	avgGain   float32
	avgLoss   float32
}

// NewRSI constructs an RSI over the given period. period must be >= 1.
func NewRSI(period int) *RSI {
	return &RSI{Period: period, periodF32: float32(period)}
}

// Init computes the initial avg_gain/avg_loss over indices 1..period from
// r and returns period+1, the first index Update may be called at.
func (rsi *RSI) Init(r input.Reader) int {
	var gain, loss float32
	for i := 1; i <= rsi.Period; i++ {
		d := r.At(i) - r.At(i-1)
		if d > 0 {
			gain += d / rsi.periodF32
		} else {
			loss += -d / rsi.periodF32
		}
	}
	rsi.avgGain = gain
	rsi.avgLoss = loss
	return rsi.Period + 1
}

// Update advances the rolling averages by one step and returns the RSI
// value at offset.
func (rsi *RSI) Update(r input.Reader, offset int) float32 {
	p := rsi.Period
	d := r.At(offset) - r.At(offset-1)
	leaving := r.At(offset-p) - r.At(offset-p-1)

	if leaving > 0 {
		rsi.avgGain -= leaving / rsi.periodF32
	} else {
		rsi.avgLoss -= -leaving / rsi.periodF32
	}
	if d > 0 {
		rsi.avgGain += d / rsi.periodF32
	} else {
		rsi.avgLoss += -d / rsi.periodF32
	}

	rs := rsi.avgGain / rsi.avgLoss
	if rs != rs { // NaN: both averages are zero
		rs = 1
	}
	return 100 - 100/(1+rs)
}
