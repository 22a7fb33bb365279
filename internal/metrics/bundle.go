package metrics

import "github.com/atlas-desktop/backtest-engine/pkg/types"

// CanonicalDeclarations returns every canonical metric, already laid
// out in topological order: each entry's ExecutionOrder is
// higher than the order of anything it reads by name. Trackers is
// the set of canonical metric names the caller additionally wants
// recorded into the track buffer.
func CanonicalDeclarations(trackers map[string]bool) []Declaration {
	order := func(o int) types.ExecutionOrder { return types.ExecutionOrder(o) }
	track := func(name string) bool { return trackers[name] }

	decls := []Declaration{
		{Order: order(0), Condition: Always, Metric: Balance{}, Tracker: track("Balance")},
		{Order: order(0), Condition: Always, Metric: BalanceDelta{}, Tracker: track("BalanceDelta")},

		{Order: order(1), Condition: Always, Metric: MaxBalance{}, Tracker: track("MaxBalance")},
		{Order: order(1), Condition: Always, Metric: BalanceDeltaRel{}, Tracker: track("BalanceDeltaRel")},
		{Order: order(1), Condition: Always, Metric: Profit{}, Tracker: track("Profit")},
		{Order: order(1), Condition: Always, Metric: Loss{}, Tracker: track("Loss")},
		{Order: order(1), Condition: Always, Metric: NTrades{}, Tracker: track("NTrades")},
		{Order: order(1), Condition: Always, Metric: NWinPositions{}, Tracker: track("NWinPositions")},
		{Order: order(1), Condition: Always, Metric: NLossPositions{}, Tracker: track("NLossPositions")},

		{Order: order(2), Condition: Always, Metric: Drawdown{}, Tracker: track("Drawdown")},
		{Order: order(2), Condition: Always, Metric: ProfitRel{}, Tracker: track("ProfitRel")},
		{Order: order(2), Condition: Always, Metric: LossRel{}, Tracker: track("LossRel")},
		{Order: order(2), Condition: Always, Metric: WinRate{}, Tracker: track("WinRate")},
		{Order: order(2), Condition: Always, Metric: Sum{Out: "_SumProfit", Dep: "Profit"}, Tracker: false},
		{Order: order(2), Condition: Always, Metric: Sum{Out: "_SumLoss", Dep: "Loss"}, Tracker: false},
		{Order: order(2), Condition: Always, Metric: Stddev{Out: "_StddevBalanceDeltaRel", Dep: "BalanceDeltaRel"}, Tracker: false},

		{Order: order(3), Condition: Always, Metric: MaxDrawdown{}, Tracker: track("MaxDrawdown")},
		{Order: order(3), Condition: Always, Metric: ProfitFactor{}, Tracker: track("ProfitFactor")},
		{Order: order(3), Condition: Always, Metric: ExpectedPayoff{}, Tracker: track("ExpectedPayoff")},
		{Order: order(3), Condition: Always, Metric: Sum{Out: "_SumProfitRel", Dep: "ProfitRel"}, Tracker: false},
		{Order: order(3), Condition: Always, Metric: Sum{Out: "_SumLossRel", Dep: "LossRel"}, Tracker: false},
		{Order: order(3), Condition: Always, Metric: Stddev{Out: "_StddevLossRel", Dep: "LossRel"}, Tracker: false},

		{Order: order(4), Condition: Always, Metric: NormalizedProfitFactor{}, Tracker: track("NormalizedProfitFactor")},
	}

	// Cagr, ReturnY, SharpeRatio and SortinoRatio are time-denominated and
	// meaningful once per block, not once per tick — they are declared on
	// the BlockRelay axis.
	decls = append(decls,
		Declaration{Phase: types.BlockRelay, Order: order(0), Condition: Always, Metric: Cagr{}, Tracker: track("Cagr")},
		Declaration{Phase: types.BlockRelay, Order: order(0), Condition: Always, Metric: ReturnY{}, Tracker: track("ReturnY")},
		Declaration{Phase: types.BlockRelay, Order: order(1), Condition: Always, Metric: SharpeRatio{}, Tracker: track("SharpeRatio")},
		Declaration{Phase: types.BlockRelay, Order: order(1), Condition: Always, Metric: SortinoRatio{}, Tracker: track("SortinoRatio")},
	)

	return decls
}
