package metrics

import "github.com/atlas-desktop/backtest-engine/pkg/types"

const yearSeconds = 365 * 24 * 3600

// Balance mirrors Account.Balance into the Store so other metrics can
// depend on it by name.
type Balance struct{}

func (Balance) Name() string { return "Balance" }
func (Balance) Update(store *Store, _ *types.Resources, acc *types.Account, _ *types.EventBuffer) {
	store.Set("Balance", acc.Balance)
}

// MaxBalance is the running maximum of Balance.
type MaxBalance struct{}

func (MaxBalance) Name() string { return "MaxBalance" }
func (MaxBalance) Update(store *Store, _ *types.Resources, acc *types.Account, ev *types.EventBuffer) {
	Max{Out: "MaxBalance", Dep: "Balance"}.Update(store, nil, acc, ev)
}

// Drawdown is (MaxBalance-Balance)/MaxBalance.
type Drawdown struct{}

func (Drawdown) Name() string { return "Drawdown" }
func (Drawdown) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	maxBal := store.Get("MaxBalance")
	if maxBal == 0 {
		store.Set("Drawdown", 0)
		return
	}
	store.Set("Drawdown", (maxBal-store.Get("Balance"))/maxBal)
}

// MaxDrawdown is the running maximum of Drawdown.
type MaxDrawdown struct{}

func (MaxDrawdown) Name() string { return "MaxDrawdown" }
func (MaxDrawdown) Update(store *Store, _ *types.Resources, acc *types.Account, ev *types.EventBuffer) {
	Max{Out: "MaxDrawdown", Dep: "Drawdown"}.Update(store, nil, acc, ev)
}

// NTrades accumulates the OrderExecuted event count every tick.
type NTrades struct{}

func (NTrades) Name() string { return "NTrades" }
func (NTrades) Update(store *Store, _ *types.Resources, _ *types.Account, ev *types.EventBuffer) {
	store.Set("NTrades", store.Get("NTrades")+float32(ev.Count(types.EventOrderExecuted)))
}

// BalanceDelta is Balance - PrevBalance.
type BalanceDelta struct{}

func (BalanceDelta) Name() string { return "BalanceDelta" }
func (BalanceDelta) Update(store *Store, _ *types.Resources, acc *types.Account, _ *types.EventBuffer) {
	store.Set("BalanceDelta", acc.Balance-acc.PrevBalance)
}

// BalanceDeltaRel is BalanceDelta / PrevBalance.
type BalanceDeltaRel struct{}

func (BalanceDeltaRel) Name() string { return "BalanceDeltaRel" }
func (BalanceDeltaRel) Update(store *Store, _ *types.Resources, acc *types.Account, _ *types.EventBuffer) {
	if acc.PrevBalance == 0 {
		store.Set("BalanceDeltaRel", 0)
		return
	}
	store.Set("BalanceDeltaRel", store.Get("BalanceDelta")/acc.PrevBalance)
}

// Profit is max(BalanceDelta, 0).
type Profit struct{}

func (Profit) Name() string { return "Profit" }
func (Profit) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	if d := store.Get("BalanceDelta"); d > 0 {
		store.Set("Profit", d)
	} else {
		store.Set("Profit", 0)
	}
}

// Loss is max(-BalanceDelta, 0).
type Loss struct{}

func (Loss) Name() string { return "Loss" }
func (Loss) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	if d := store.Get("BalanceDelta"); d < 0 {
		store.Set("Loss", -d)
	} else {
		store.Set("Loss", 0)
	}
}

// ProfitRel and LossRel are the BalanceDeltaRel-scaled counterparts of
// Profit/Loss, named after how NormalizedProfitFactor reads them
// ("Σ ProfitRel / Σ LossRel") without spelling out their own
// definitions; this repository defines them the same way Profit/Loss
// are defined, against BalanceDeltaRel instead of BalanceDelta, the
// natural reading given the naming.
type ProfitRel struct{}

func (ProfitRel) Name() string { return "ProfitRel" }
func (ProfitRel) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	if d := store.Get("BalanceDeltaRel"); d > 0 {
		store.Set("ProfitRel", d)
	} else {
		store.Set("ProfitRel", 0)
	}
}

type LossRel struct{}

func (LossRel) Name() string { return "LossRel" }
func (LossRel) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	if d := store.Get("BalanceDeltaRel"); d < 0 {
		store.Set("LossRel", -d)
	} else {
		store.Set("LossRel", 0)
	}
}

// NWinPositions accumulates PositionClosed events with BalanceDelta > 0.
type NWinPositions struct{}

func (NWinPositions) Name() string { return "NWinPositions" }
func (NWinPositions) Update(store *Store, _ *types.Resources, _ *types.Account, ev *types.EventBuffer) {
	n := 0
	for _, e := range ev.All() {
		if e.Kind == types.EventPositionClosed && e.BalanceDelta > 0 {
			n++
		}
	}
	store.Set("NWinPositions", store.Get("NWinPositions")+float32(n))
}

// NLossPositions accumulates PositionClosed events with BalanceDelta < 0.
type NLossPositions struct{}

func (NLossPositions) Name() string { return "NLossPositions" }
func (NLossPositions) Update(store *Store, _ *types.Resources, _ *types.Account, ev *types.EventBuffer) {
	n := 0
	for _, e := range ev.All() {
		if e.Kind == types.EventPositionClosed && e.BalanceDelta < 0 {
			n++
		}
	}
	store.Set("NLossPositions", store.Get("NLossPositions")+float32(n))
}

// WinRate is NWinPositions / NTrades.
type WinRate struct{}

func (WinRate) Name() string { return "WinRate" }
func (WinRate) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	if t := store.Get("NTrades"); t != 0 {
		store.Set("WinRate", store.Get("NWinPositions")/t)
	} else {
		store.Set("WinRate", 0)
	}
}

func years(res *types.Resources) float32 {
	return float32(res.Elapsed) / (yearSeconds * 1e9)
}

// Cagr is (Balance/StartingBalance)^(1/years) - 1. A zero-elapsed run
// is not special-cased: 1/years is +Inf and the pow/NaN that falls out
// of it is left to propagate to the caller rather than being papered
// over with a fallback.
type Cagr struct{}

func (Cagr) Name() string { return "Cagr" }
func (Cagr) Update(store *Store, res *types.Resources, acc *types.Account, _ *types.EventBuffer) {
	store.Set("Cagr", pow32(acc.Balance/res.StartingBalance, 1/years(res))-1)
}

// ProfitFactor is Σ Profit / Σ Loss. It reads its two sums rather than
// accumulating them itself: a run declares Sum{Out: "_SumProfit", Dep:
// "Profit"} and Sum{Out: "_SumLoss", Dep: "Loss"} at a lower
// ExecutionOrder, same as any other metric dependency (topological
// layering). `bundle.go`'s CanonicalDeclarations wires that sum pair
// alongside ProfitFactor itself.
type ProfitFactor struct{}

func (ProfitFactor) Name() string { return "ProfitFactor" }
func (ProfitFactor) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	store.Set("ProfitFactor", store.Get("_SumProfit")/store.Get("_SumLoss"))
}

// NormalizedProfitFactor is Σ ProfitRel / Σ LossRel, reading
// "_SumProfitRel"/"_SumLossRel" the same way ProfitFactor reads its sums.
// A no-losing-trade run drives the denominator to zero and the
// resulting inf/NaN is left to propagate rather than guarded away.
type NormalizedProfitFactor struct{}

func (NormalizedProfitFactor) Name() string { return "NormalizedProfitFactor" }
func (NormalizedProfitFactor) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	store.Set("NormalizedProfitFactor", store.Get("_SumProfitRel")/store.Get("_SumLossRel"))
}

// ExpectedPayoff is (Σ Profit - Σ Loss) / NTrades, reading the same
// "_SumProfit"/"_SumLoss" sums as ProfitFactor.
type ExpectedPayoff struct{}

func (ExpectedPayoff) Name() string { return "ExpectedPayoff" }
func (ExpectedPayoff) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	if t := store.Get("NTrades"); t != 0 {
		store.Set("ExpectedPayoff", (store.Get("_SumProfit")-store.Get("_SumLoss"))/t)
	} else {
		store.Set("ExpectedPayoff", 0)
	}
}

// ReturnY is (Balance-StartingBalance)/StartingBalance/years.
type ReturnY struct{}

func (ReturnY) Name() string { return "ReturnY" }
func (ReturnY) Update(store *Store, res *types.Resources, acc *types.Account, _ *types.EventBuffer) {
	y := years(res)
	if y <= 0 || res.StartingBalance == 0 {
		store.Set("ReturnY", 0)
		return
	}
	store.Set("ReturnY", (acc.Balance-res.StartingBalance)/res.StartingBalance/y)
}

// SharpeRatio is (ReturnY-RiskFreeRate)/Stddev(BalanceDeltaRel) ×
// sqrt(year_seconds/elapsed_seconds). It reads "_StddevBalanceDeltaRel",
// a Stddev{Out: "_StddevBalanceDeltaRel", Dep: "BalanceDeltaRel"}
// declared at a lower ExecutionOrder, the same dependency-by-name
// pattern ProfitFactor uses for its sums.
type SharpeRatio struct{}

func (SharpeRatio) Name() string { return "SharpeRatio" }
func (SharpeRatio) Update(store *Store, res *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	elapsedSeconds := float32(res.Elapsed) / 1e9
	sd := store.Get("_StddevBalanceDeltaRel")
	if sd == 0 || elapsedSeconds <= 0 {
		store.Set("SharpeRatio", 0)
		return
	}
	ratio := (store.Get("ReturnY") - res.RiskFreeRate) / sd
	store.Set("SharpeRatio", ratio*sqrtf(yearSeconds/elapsedSeconds))
}

// SortinoRatio is (ReturnY-RiskFreeRate)/Stddev(LossRel), reading
// "_StddevLossRel" the same way SharpeRatio reads its own Stddev dep.
type SortinoRatio struct{}

func (SortinoRatio) Name() string { return "SortinoRatio" }
func (SortinoRatio) Update(store *Store, res *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	sd := store.Get("_StddevLossRel")
	if sd == 0 {
		store.Set("SortinoRatio", 0)
		return
	}
	store.Set("SortinoRatio", (store.Get("ReturnY")-res.RiskFreeRate)/sd)
}
