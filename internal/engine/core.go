package engine

import "github.com/atlas-desktop/backtest-engine/pkg/types"

// RegisterCoreSystems wires the handful of systems the schedule itself
// owns, as opposed to the ones input/indicator/trade/metrics register:
// advancing LoopIndex at the two points the schedule names for it, and
// deciding Break.
//
// Account.PrevBalance is snapshotted here too, at IncLoopIndex, once per
// tick and unconditionally. UpdatePrev runs exactly once, before the
// loop starts, and nothing is registered there (indicator catch_up, at
// CatchUp, seeds each PrevValue wrapper). Canonical metrics need a fresh
// PrevBalance every tick (BalanceDelta = Balance - PrevBalance), and
// IncLoopIndex is the one loop phase that already runs unconditionally
// exactly once per tick, so that is where the per-tick balance snapshot
// happens.
func RegisterCoreSystems(s *Scheduler) {
	s.AddGlobal(PhaseIncPreLoopIndex, func(w *World, res *types.Resources) {
		// Indicator catch_up has already consumed every offset up to and
		// including WarmupIndex, so the loop starts one past it. With no
		// warm-up (WarmupIndex 0) nothing has read offset 0 yet, so the
		// loop starts there.
		if res.WarmupIndex > 0 {
			res.LoopIndex = res.WarmupIndex + 1
		} else {
			res.LoopIndex = 0
		}
	})

	s.Add(PhaseIncLoopIndex, "snapshot_prev_balance", func(w *World, res *types.Resources, acc *types.Account, idx int) {
		acc.SnapshotPrevBalance()
	})

	// Runs in the same phase as snapshot_prev_balance above; the two touch
	// disjoint fields (Resources vs. per-account Balance) so their
	// relative order within the phase does not matter.
	s.AddGlobal(PhaseIncLoopIndex, func(w *World, res *types.Resources) {
		res.LoopIndex++
		if res.LoopIndex >= res.LoopEndBoundExcluded {
			res.Break = true
		}
	})
}
