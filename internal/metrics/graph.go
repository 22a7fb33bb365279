package metrics

import (
	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// Graph holds every declared metric, deduplicated and in declaration
// order, and the track-buffer slot of each tracker; RegisterSystems
// places each declaration on the phase its (UpdatePhase,
// ExecutionOrder) pair resolves to.
type Graph struct {
	decls   []Declaration
	tracker []trackerBinding
}

type trackerBinding struct {
	index int // this tracker's slot in the TrackBuffer
	name  string
}

// NewGraph keeps decls in declaration order (callers are expected to
// have already assigned each Declaration.Order to satisfy
// max(deps.order)+1; NewGraph neither sorts them nor solves the
// dependency graph itself), drops any declaration whose metric name was
// already seen on the same UpdatePhase axis (declaring the same metric
// twice has the same effect as declaring it once — no double Update, no
// double tracker sample), and assigns tracker slots in declaration order
// to every surviving Declaration with Tracker set.
func NewGraph(decls []Declaration) *Graph {
	g := &Graph{}
	seen := make(map[types.UpdatePhase]map[string]bool)
	for _, d := range decls {
		byName := seen[d.Phase]
		if byName == nil {
			byName = make(map[string]bool)
			seen[d.Phase] = byName
		}
		name := d.Metric.Name()
		if byName[name] {
			continue
		}
		byName[name] = true
		g.decls = append(g.decls, d)
		if d.Tracker {
			g.tracker = append(g.tracker, trackerBinding{index: len(g.tracker), name: name})
		}
	}
	return g
}

// TrackerCount is how many track-buffer slots this graph needs.
func (g *Graph) TrackerCount() int { return len(g.tracker) }

// RegisterSystems wires every declaration onto its resolved Phase and the
// sample_recorded bookkeeping at the end of the PostTrade band. stores
// and eventsOf are indexed by account position, same as
// World.Accounts(); tracks may be nil if no tracker was declared.
func (g *Graph) RegisterSystems(s *engine.Scheduler, stores []*Store, eventsOf []*types.EventBuffer, tracks *TrackBuffer, thread int) {
	trackerIdx := 0
	for _, d := range g.decls {
		phase := resolvePhase(d)
		tIdx := -1
		if d.Tracker {
			tIdx = trackerIdx
			trackerIdx++
		}
		d := d
		cond := func(_ *engine.World, res *types.Resources, acc *types.Account, idx int) types.ConditionResult {
			return d.Condition(stores[idx], res, acc, eventsOf[idx])
		}
		s.AddConditional(phase, "metric:"+d.Metric.Name(), cond, func(_ *engine.World, res *types.Resources, acc *types.Account, idx int) {
			store := stores[idx]
			d.Metric.Update(store, res, acc, eventsOf[idx])
			if d.Tracker {
				tracks.Append(tIdx, idx, store.sampleID, thread, store.Get(d.Metric.Name()))
				store.sampleRecorded = true
			}
		})
	}

	s.Add(engine.PhaseIncLoopIndex, "advance_sample_id", func(_ *engine.World, _ *types.Resources, _ *types.Account, idx int) {
		store := stores[idx]
		if store.sampleRecorded {
			store.sampleID++
			store.sampleRecorded = false
		}
	})
}

func resolvePhase(d Declaration) engine.Phase {
	if d.Phase == types.BlockRelay {
		return engine.PostBlockPhases[d.Order]
	}
	return engine.PostTradePhases[d.Order]
}

// InitFromBuffer reads every declared metric's value out of buf into its
// Store, for warm starts: at Init each metric is read from the buffer
// into its component.
func (g *Graph) InitFromBuffer(stores []*Store, buf *MetricBuffer, thread int) {
	for i, d := range g.decls {
		for acc, store := range stores {
			store.Set(d.Metric.Name(), buf.Read(FieldOffset(i), acc, thread))
		}
	}
}

// FlushToBuffer writes every declared metric's current value into buf:
// at End each is written back.
func (g *Graph) FlushToBuffer(stores []*Store, buf *MetricBuffer, thread int) {
	for i, d := range g.decls {
		for acc, store := range stores {
			buf.Write(FieldOffset(i), acc, thread, store.Get(d.Metric.Name()))
		}
	}
}
