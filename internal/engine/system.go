package engine

import "github.com/atlas-desktop/backtest-engine/pkg/types"

// System is one unit of scheduled work: a function bound to a phase that
// reads and writes World state for a single account entity. idx is that
// account's position in World.Accounts(), which components keyed
// per-account but stored outside Account itself (indicator bindings,
// order buffers) use to find their row. Systems never see other
// accounts' data and never reorder themselves — the Scheduler owns
// ordering entirely.
type System func(w *World, res *types.Resources, acc *types.Account, idx int)

// GlobalSystem is a System that only touches Resources, not any one
// account — the loop-index bump and the break check are the canonical
// examples. It runs exactly once per phase per tick, never once per
// account, since Resources is a singleton.
type GlobalSystem func(w *World, res *types.Resources)

// Condition gates a System: when it reports Skip the System still occupies
// its phase slot but does not run this tick. Used by the metrics graph to
// gate each declaration on its Condition.
type Condition func(w *World, res *types.Resources, acc *types.Account, idx int) types.ConditionResult

// entry pairs a System with an optional Condition inside one phase.
type entry struct {
	name string
	cond Condition
	run  System
}

// Scheduler holds every registered System, bucketed by Phase, and walks
// them in the fixed order from phases.go. It never consults a priority
// queue or a dependency solver at run time — topological ordering (for
// the metrics graph) is resolved once, ahead of time, into a phase
// assignment at registration.
type Scheduler struct {
	byPhase       map[Phase][]entry
	globalByPhase map[Phase][]GlobalSystem
}

// NewScheduler returns an empty Scheduler. Register systems with Add,
// AddConditional or AddGlobal; World.Run then runs the loop phases once
// per tick and the pre-loop/post-loop phases once.
func NewScheduler() *Scheduler {
	return &Scheduler{
		byPhase:       make(map[Phase][]entry),
		globalByPhase: make(map[Phase][]GlobalSystem),
	}
}

// Add registers sys to run during phase, in registration order relative
// to other systems already added to that same phase. Only the metrics
// graph's layering depends on that order, and it is enforced
// by registering metrics' systems in topological order up front.
func (s *Scheduler) Add(phase Phase, name string, sys System) {
	s.byPhase[phase] = append(s.byPhase[phase], entry{name: name, run: sys})
}

// AddConditional registers sys to run during phase only on ticks where
// cond reports Run.
func (s *Scheduler) AddConditional(phase Phase, name string, cond Condition, sys System) {
	s.byPhase[phase] = append(s.byPhase[phase], entry{name: name, cond: cond, run: sys})
}

// AddGlobal registers sys to run during phase exactly once per tick,
// before that phase's per-account systems.
func (s *Scheduler) AddGlobal(phase Phase, sys GlobalSystem) {
	s.globalByPhase[phase] = append(s.globalByPhase[phase], sys)
}

// runPhase executes every global system registered for phase once, then
// every per-account system registered for phase against every account in
// accounts, in registration order.
func (s *Scheduler) runPhase(phase Phase, w *World, res *types.Resources, accounts []*types.Account) {
	for _, g := range s.globalByPhase[phase] {
		g(w, res)
	}

	entries := s.byPhase[phase]
	if len(entries) == 0 {
		return
	}
	for idx, acc := range accounts {
		for _, e := range entries {
			if e.cond != nil && e.cond(w, res, acc, idx) == types.Skip {
				continue
			}
			e.run(w, res, acc, idx)
		}
	}
}
