// Package metrics implements the metric and tracker dependency graph: a
// topologically-ordered chain of update steps keyed by (UpdatePhase,
// ExecutionOrder), plus the packed-memory-layout buffers that expose
// their output to callers without per-call allocation.
package metrics

import "github.com/atlas-desktop/backtest-engine/pkg/types"

// Store is one account's metric value table: the per-entity lookup
// protocol metrics use to read their declared dependencies. Names are
// resolved at declaration time by the caller wiring the graph, not by
// this package — Store itself is just a flat map.
type Store struct {
	values         map[string]float32
	sampleID       int
	sampleRecorded bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[string]float32)}
}

// Get reads a metric's current value; a metric never read yet is zero,
// matching a freshly constructed Account/Store pair.
func (s *Store) Get(name string) float32 { return s.values[name] }

// Set writes a metric's current value.
func (s *Store) Set(name string, v float32) { s.values[name] = v }

// SampleID is the current track-buffer sample index for this account.
func (s *Store) SampleID() int { return s.sampleID }

// Metric is one declared metric: a name (the key other metrics' Update
// reads it by) and an update function.
type Metric interface {
	Name() string
	Update(store *Store, res *types.Resources, acc *types.Account, events *types.EventBuffer)
}

// Condition gates whether a declaration's Update runs this tick.
type Condition func(store *Store, res *types.Resources, acc *types.Account, events *types.EventBuffer) types.ConditionResult

// Always never skips. Most canonical metrics use this.
func Always(*Store, *types.Resources, *types.Account, *types.EventBuffer) types.ConditionResult {
	return types.Run
}

// OnEvent skips unless at least one event of kind was recorded this
// tick — the "OnPositionClosed" gating a tracker declaration uses to
// sample only on the ticks that actually closed a position.
func OnEvent(kind types.EventKind) Condition {
	return func(_ *Store, _ *types.Resources, _ *types.Account, events *types.EventBuffer) types.ConditionResult {
		if events.Count(kind) > 0 {
			return types.Run
		}
		return types.Skip
	}
}

// Declaration is one (SimulationRelay, UpdatePhase, Condition, Metric)
// tuple. Order is the metric's topological layer; Tracker marks whether
// this declaration also pushes to the track buffer.
type Declaration struct {
	Relay     types.SimulationRelay
	Phase     types.UpdatePhase
	Order     types.ExecutionOrder
	Condition Condition
	Metric    Metric
	Tracker   bool
}
