package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/atlas-desktop/backtest-engine/internal/obs"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
	"go.uber.org/zap"
)

// World is one deterministic, single-threaded simulation instance: one
// Resources bag plus the accounts it drives through the fixed schedule.
// Nothing in World spawns a goroutine; internal/fleet is what runs many
// Worlds concurrently.
type World struct {
	logger    *zap.Logger
	scheduler *Scheduler
	resources *types.Resources
	accounts  []*types.Account
	runID     string
}

// NewWorld wires a Scheduler (already populated by the input, indicator,
// trade and metrics packages) to a Resources bag and its accounts. runID
// labels this World's ambient telemetry (internal/obs); pass "" outside
// a fleet context where distinguishing runs doesn't matter.
func NewWorld(logger *zap.Logger, scheduler *Scheduler, resources *types.Resources, accounts []*types.Account, runID string) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{
		logger:    logger,
		scheduler: scheduler,
		resources: resources,
		accounts:  accounts,
		runID:     runID,
	}
}

// Resources exposes the Resources bag for systems registered outside this
// package (input, indicator, trade, metrics all hold their own reference
// taken at construction time, but tests and cmd/backtest-runner read it
// through here).
func (w *World) Resources() *types.Resources { return w.resources }

// Accounts returns the account slice driven by this World.
func (w *World) Accounts() []*types.Account { return w.accounts }

// Run drives the fixed schedule to completion: pre-loop once, the loop
// body until Resources.Break is set, then post-loop once.
// It returns early on ctx cancellation, which this package treats as an
// operator abort rather than a scheduler concept — Resources.Break is the
// only termination signal the schedule itself understands.
func (w *World) Run(ctx context.Context) error {
	w.logger.Info("simulation starting",
		zap.Int("accounts", len(w.accounts)),
		zap.Int("loopEndBoundExcluded", w.resources.LoopEndBoundExcluded),
	)

	obs.RunsInFlight.Inc()
	defer obs.RunsInFlight.Dec()
	started := time.Now()

	for _, phase := range preLoopPhases {
		w.scheduler.runPhase(phase, w, w.resources, w.accounts)
	}

	ticks := 0
	for !w.resources.Break {
		select {
		case <-ctx.Done():
			return fmt.Errorf("engine: run aborted at tick %d: %w", w.resources.LoopIndex, ctx.Err())
		default:
		}

		for _, phase := range loopPhases {
			w.scheduler.runPhase(phase, w, w.resources, w.accounts)
		}
		ticks++
		obs.TicksTotal.WithLabelValues(w.runID).Inc()
	}

	for _, phase := range postLoopPhases {
		w.scheduler.runPhase(phase, w, w.resources, w.accounts)
	}

	obs.RunDurationSeconds.WithLabelValues(w.runID).Observe(time.Since(started).Seconds())
	w.logger.Info("simulation complete", zap.Int("ticks", ticks))
	return nil
}
