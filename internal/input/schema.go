package input

import (
	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// Schema is an input schema: an ordered description of one
// observation, able to write its current-index record into a Resources
// bag and report how long the series is.
type Schema interface {
	// Len is the number of observations in the bound series; it sets
	// Resources.LoopEndBoundExcluded at BacktestInit.
	Len() int
	// WriteRaw copies the record at index into the packed market fields of
	// res (Price/High/Low/Volume or the tick fields).
	WriteRaw(res *types.Resources, index int)
	// WriteDerived computes the fields that follow from the raw ones:
	// Elapsed, and in order-flow mode the unpacked TypeMask.
	WriteDerived(res *types.Resources, index int)
}

// HLCVSchema drives the loop from a bar series (the HLCV variant).
// Elapsed is loop_index × timeframe_s × 1e9.
type HLCVSchema struct {
	Bars             []types.Bar
	TimeframeSeconds float64
}

func (s HLCVSchema) Len() int { return len(s.Bars) }

func (s HLCVSchema) WriteRaw(res *types.Resources, index int) {
	b := s.Bars[index]
	res.High = b.High
	res.Low = b.Low
	res.Price = b.Close
	res.Volume = b.Volume
}

func (s HLCVSchema) WriteDerived(res *types.Resources, index int) {
	res.Elapsed = int64(float64(index) * s.TimeframeSeconds * 1e9)
}

// OrderFlowSchema drives the loop from a tick series (the order-flow
// variant). Elapsed is timestamp_ns − start_timestamp_ns.
type OrderFlowSchema struct {
	Ticks            []types.Tick
	StartTimestampNs int64
}

func (s OrderFlowSchema) Len() int { return len(s.Ticks) }

func (s OrderFlowSchema) WriteRaw(res *types.Resources, index int) {
	t := s.Ticks[index]
	res.Price = t.Price
	res.High = t.Price
	res.Low = t.Price
	res.Amount = t.Amount
	res.NOrders = t.NOrders
	res.TimestampNs = t.TimestampNs
}

func (s OrderFlowSchema) WriteDerived(res *types.Resources, index int) {
	t := s.Ticks[index]
	res.Type = t.TypeMask()
	res.Elapsed = res.TimestampNs - s.StartTimestampNs
}

// RegisterSystems wires schema's two writes onto Input0 and Input1, and
// seeds Resources.LoopEndBoundExcluded and Mode. Call this once, before
// World.Run's pre-loop phases execute, so BacktestInit-phase systems
// (indicator init, for instance) can already see the correct bound.
func RegisterSystems(s *engine.Scheduler, res *types.Resources, schema Schema, mode types.InputMode) {
	res.Mode = mode
	res.LoopEndBoundExcluded = schema.Len()

	s.AddGlobal(engine.PhaseInput0, func(_ *engine.World, res *types.Resources) {
		schema.WriteRaw(res, res.LoopIndex)
	})
	s.AddGlobal(engine.PhaseInput1, func(_ *engine.World, res *types.Resources) {
		schema.WriteDerived(res, res.LoopIndex)
	})
}
