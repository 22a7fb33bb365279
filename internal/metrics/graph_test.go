package metrics_test

import (
	"context"
	"testing"

	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/internal/input"
	"github.com/atlas-desktop/backtest-engine/internal/metrics"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// TestTrackerSampleCount checks that a strategy producing exactly 7
// closed positions, with a Balance tracker declared OnPositionClosed,
// ends the run with sample_id == 7.
func TestTrackerSampleCount(t *testing.T) {
	const nBars = 10
	const nClosedPositions = 7

	bars := make([]types.Bar, nBars)
	for i := range bars {
		bars[i] = types.Bar{High: 101, Low: 99, Close: 100, Volume: 1}
	}

	res := &types.Resources{StartingBalance: 1}
	sched := engine.NewScheduler()
	engine.RegisterCoreSystems(sched)

	schema := input.HLCVSchema{Bars: bars, TimeframeSeconds: 60}
	input.RegisterSystems(sched, res, schema, types.ModeHLCV)

	acc := &types.Account{Balance: 1}
	accounts := []*types.Account{acc}
	events := types.NewEventBuffer(4)
	eventsOf := []*types.EventBuffer{events}

	// Pushes a PositionClosed event for the first nClosedPositions ticks
	// only, then stops — the same per-tick granularity the real Trade
	// phase would produce.
	sched.Add(engine.PhaseTrade, "fake_closes", func(_ *engine.World, r *types.Resources, _ *types.Account, idx int) {
		if r.LoopIndex < nClosedPositions {
			eventsOf[idx].Push(types.Event{Kind: types.EventPositionClosed, BalanceDelta: 1})
		}
	})
	sched.Add(engine.PhaseLast, "drain", func(_ *engine.World, _ *types.Resources, _ *types.Account, idx int) {
		eventsOf[idx].Drain()
	})

	decls := []metrics.Declaration{
		{Order: types.Order0, Condition: metrics.OnEvent(types.EventPositionClosed), Metric: metrics.Balance{}, Tracker: true},
	}
	graph := metrics.NewGraph(decls)
	store := metrics.NewStore()
	stores := []*metrics.Store{store}

	track := metrics.NewTrackBuffer(make([]byte, graph.TrackerCount()*nBars*4), graph.TrackerCount(), nBars, metrics.Topology{AccountsPerThread: 1, ThreadsPerDevice: 1})
	graph.RegisterSystems(sched, stores, eventsOf, track, 0)

	world := engine.NewWorld(nil, sched, res, accounts, "test")
	if err := world.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if store.SampleID() != nClosedPositions {
		t.Fatalf("expected sample_id == %d, got %d", nClosedPositions, store.SampleID())
	}
}

// TestGraphTrackerCountMatchesDeclaredTrackers checks that NewGraph
// dedupes by metric name within the same relay: declaring the same
// metric twice has the same effect as declaring it once, so the second
// Balance declaration contributes neither another Update nor another
// tracker slot.
func TestGraphTrackerCountMatchesDeclaredTrackers(t *testing.T) {
	decls := []metrics.Declaration{
		{Metric: metrics.Balance{}, Tracker: true},
		{Metric: metrics.Balance{}, Tracker: true},
		{Metric: metrics.MaxBalance{}, Tracker: false},
	}
	g := metrics.NewGraph(decls)
	if g.TrackerCount() != 1 {
		t.Fatalf("expected 1 tracker slot after deduping the repeated Balance declaration, got %d", g.TrackerCount())
	}
}
