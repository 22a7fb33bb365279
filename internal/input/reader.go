// Package input implements the stride-addressed observation stage: each
// tick it copies one record from the input series into Resources, and
// it exposes the Reader abstraction that the indicator package binds to
// a single field of that series.
package input

import "github.com/atlas-desktop/backtest-engine/pkg/types"

// Reader is a stride-aware, read-only view over one field of the input
// series, bound at build time.
// Indicators only ever see the field they were built against, never the
// whole observation.
type Reader interface {
	At(index int) float32
	Len() int
}

// barField extracts one float32 field from a Bar.
type barField func(b types.Bar) float32

// barReader is a Reader bound to one field of an HLCV bar series.
type barReader struct {
	bars  []types.Bar
	field barField
}

func (r barReader) At(index int) float32 { return r.field(r.bars[index]) }
func (r barReader) Len() int             { return len(r.bars) }

// NewCloseReader binds a Reader to the close price of an HLCV series —
// the field RSI and most indicators are built against.
func NewCloseReader(bars []types.Bar) Reader {
	return barReader{bars: bars, field: func(b types.Bar) float32 { return b.Close }}
}

// NewHighReader binds a Reader to the high field of an HLCV series.
func NewHighReader(bars []types.Bar) Reader {
	return barReader{bars: bars, field: func(b types.Bar) float32 { return b.High }}
}

// NewLowReader binds a Reader to the low field of an HLCV series.
func NewLowReader(bars []types.Bar) Reader {
	return barReader{bars: bars, field: func(b types.Bar) float32 { return b.Low }}
}

// NewVolumeReader binds a Reader to the volume field of an HLCV series.
func NewVolumeReader(bars []types.Bar) Reader {
	return barReader{bars: bars, field: func(b types.Bar) float32 { return b.Volume }}
}

// tickField extracts one float32 field from a Tick.
type tickField func(t types.Tick) float32

// tickReader is a Reader bound to one field of an order-flow tick series.
type tickReader struct {
	ticks []types.Tick
	field tickField
}

func (r tickReader) At(index int) float32 { return r.field(r.ticks[index]) }
func (r tickReader) Len() int             { return len(r.ticks) }

// NewPriceReader binds a Reader to the price field of a tick series — the
// order-flow equivalent of NewCloseReader.
func NewPriceReader(ticks []types.Tick) Reader {
	return tickReader{ticks: ticks, field: func(t types.Tick) float32 { return t.Price }}
}
