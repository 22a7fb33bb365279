package strategy

import (
	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/internal/indicator"
	"github.com/atlas-desktop/backtest-engine/internal/metrics"
	"github.com/atlas-desktop/backtest-engine/internal/trade"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// Context bundles everything a Strategy may read: packed market fields
// (via Resources), indicator values and their previous values,
// hyperparameters, the metric scalars it conditions on, and an Orders
// handle to write through.
type Context struct {
	Resources       *types.Resources
	Account         *types.Account
	Indicators      map[string]*indicator.Binding
	Hyperparameters map[string]Hyperparameter
	Metrics         *metrics.Store
	Orders          *trade.Orders
}

// Strategy is a pure function of its declared Context. It never touches
// Account or Resources directly except through Context's fields, and it
// writes only by calling Orders.Send/On.
type Strategy func(ctx Context)

// RegisterSystems wires strategy to run for every account at the Signal
// phase (scheduler places Signal right before Trade, and
// right after IndicatorCompute so indicator values are fresh).
func RegisterSystems(s *engine.Scheduler, strategyFn Strategy, indicators []map[string]*indicator.Binding, hyperparams []map[string]Hyperparameter, stores []*metrics.Store, ordersOf []*trade.Orders) {
	s.Add(engine.PhaseSignal, "strategy", func(_ *engine.World, res *types.Resources, acc *types.Account, idx int) {
		strategyFn(Context{
			Resources:       res,
			Account:         acc,
			Indicators:      indicators[idx],
			Hyperparameters: hyperparams[idx],
			Metrics:         stores[idx],
			Orders:          ordersOf[idx],
		})
	})
}
