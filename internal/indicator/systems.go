package indicator

import (
	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// RegisterSystems wires the three per-indicator systems (init, catch_up,
// compute) plus the auxiliary prev/cur snapshot, for every binding in
// perAccount. perAccount[i] lists the indicators belonging to the
// account at World.Accounts()[i]; every account must carry the same
// indicator set (same names, same order) for the warm-up bound to be
// meaningful across the fleet.
//
// init and catch_up run at the BacktestInit and CatchUp phases by name.
// compute runs at IndicatorCompute every tick. The prev/cur snapshot is
// registered at Trade, which is the phase immediately after Signal in
// the fixed schedule, rather than inventing a phase of its own for
// "after signal".
func RegisterSystems(s *engine.Scheduler, perAccount [][]*Binding) {
	s.AddGlobal(engine.PhaseBacktestInit, func(_ *engine.World, res *types.Resources) {
		start := 0
		for _, bindings := range perAccount {
			for _, b := range bindings {
				b.ownStart = b.Indicator.Init(b.Reader)
				if b.ownStart > start {
					start = b.ownStart
				}
			}
		}
		res.WarmupIndex = start
	})

	s.Add(engine.PhaseCatchUp, "indicator_catch_up", func(_ *engine.World, res *types.Resources, _ *types.Account, idx int) {
		for _, b := range perAccount[idx] {
			for k := b.ownStart; k <= res.WarmupIndex; k++ {
				b.Value.Set(b.Indicator.Update(b.Reader, k))
			}
			b.Value.Snapshot()
		}
	})

	s.Add(engine.PhaseIndicatorCompute, "indicator_compute", func(_ *engine.World, res *types.Resources, _ *types.Account, idx int) {
		for _, b := range perAccount[idx] {
			b.Value.Set(b.Indicator.Update(b.Reader, res.LoopIndex))
		}
	})

	s.Add(engine.PhaseTrade, "indicator_snapshot_prev", func(_ *engine.World, _ *types.Resources, _ *types.Account, idx int) {
		for _, b := range perAccount[idx] {
			b.Value.Snapshot()
		}
	})
}
