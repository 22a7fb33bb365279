package engine_test

import (
	"context"
	"testing"

	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// TestPhaseOrderMatchesFixedSchedule grounds that systems run in the
// exact phase order Init..End, never reordered by registration order
// across phases (only within a phase is registration order significant).
func TestPhaseOrderMatchesFixedSchedule(t *testing.T) {
	res := &types.Resources{LoopEndBoundExcluded: 2}
	acc := &types.Account{}
	sched := engine.NewScheduler()
	engine.RegisterCoreSystems(sched)

	var trace []string
	record := func(name string) engine.System {
		return func(_ *engine.World, _ *types.Resources, _ *types.Account, _ int) {
			trace = append(trace, name)
		}
	}
	sched.Add(engine.PhaseInit, "init", record("Init"))
	sched.Add(engine.PhaseInput0, "input0", record("Input0"))
	sched.Add(engine.PhaseSignal, "signal", record("Signal"))
	sched.Add(engine.PhaseTrade, "trade", record("Trade"))
	sched.Add(engine.PhaseEnd, "end", record("End"))

	world := engine.NewWorld(nil, sched, res, []*types.Account{acc}, "")
	if err := world.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Two ticks means Init/End run once, Input0/Signal/Trade run twice,
	// and the loop-body phases always appear in the same relative order.
	want := []string{
		"Init",
		"Input0", "Signal", "Trade",
		"Input0", "Signal", "Trade",
		"End",
	}
	if len(trace) != len(want) {
		t.Fatalf("expected %d recorded calls, got %d: %v", len(want), len(trace), trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("position %d: got %q, want %q (full trace %v)", i, trace[i], want[i], trace)
		}
	}
}

// TestBreakFlagStopsLoopAtBound grounds the cooperative break-flag
// termination: no thrown control flow, just a Resources field checked
// once per tick at IncLoopIndex.
func TestBreakFlagStopsLoopAtBound(t *testing.T) {
	res := &types.Resources{LoopEndBoundExcluded: 5}
	acc := &types.Account{}
	sched := engine.NewScheduler()
	engine.RegisterCoreSystems(sched)

	ticks := 0
	sched.Add(engine.PhaseInput0, "count", func(_ *engine.World, _ *types.Resources, _ *types.Account, _ int) {
		ticks++
	})

	world := engine.NewWorld(nil, sched, res, []*types.Account{acc}, "")
	if err := world.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if ticks != 5 {
		t.Fatalf("expected exactly 5 ticks for a bound of 5, got %d", ticks)
	}
	if !res.Break {
		t.Fatal("expected Break to be set once the loop terminates")
	}
}

// TestConditionalSystemSkipsWithoutConsumingPhaseSlot verifies
// AddConditional honors a Skip verdict: the gated system must not run,
// while an ungated sibling in the same phase still does.
func TestConditionalSystemSkipsWithoutConsumingPhaseSlot(t *testing.T) {
	res := &types.Resources{LoopEndBoundExcluded: 1}
	acc := &types.Account{}
	sched := engine.NewScheduler()
	engine.RegisterCoreSystems(sched)

	var gatedRan, ungatedRan bool
	alwaysSkip := func(_ *engine.World, _ *types.Resources, _ *types.Account, _ int) types.ConditionResult {
		return types.Skip
	}
	sched.AddConditional(engine.PhaseSignal, "gated", alwaysSkip, func(_ *engine.World, _ *types.Resources, _ *types.Account, _ int) {
		gatedRan = true
	})
	sched.Add(engine.PhaseSignal, "ungated", func(_ *engine.World, _ *types.Resources, _ *types.Account, _ int) {
		ungatedRan = true
	})

	world := engine.NewWorld(nil, sched, res, []*types.Account{acc}, "")
	if err := world.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if gatedRan {
		t.Fatal("expected the Skip-gated system to never run")
	}
	if !ungatedRan {
		t.Fatal("expected the ungated sibling system to still run")
	}
}

// TestIncPreLoopIndexSeedsWarmupIndex grounds the pre-loop/loop boundary:
// LoopIndex starts one past WarmupIndex, not at WarmupIndex itself, so
// indicators that already consumed the warm-up window (inclusive of
// WarmupIndex) during catch_up don't have their first loop tick
// re-process the same offset.
func TestIncPreLoopIndexSeedsWarmupIndex(t *testing.T) {
	res := &types.Resources{WarmupIndex: 3, LoopEndBoundExcluded: 5}
	acc := &types.Account{}
	sched := engine.NewScheduler()
	engine.RegisterCoreSystems(sched)

	var firstLoopIndex int
	seen := false
	sched.Add(engine.PhaseInput0, "observe", func(_ *engine.World, r *types.Resources, _ *types.Account, _ int) {
		if !seen {
			firstLoopIndex = r.LoopIndex
			seen = true
		}
	})

	world := engine.NewWorld(nil, sched, res, []*types.Account{acc}, "")
	if err := world.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if firstLoopIndex != 4 {
		t.Fatalf("expected the loop's first tick to see LoopIndex==WarmupIndex+1 (4), got %d", firstLoopIndex)
	}
}
