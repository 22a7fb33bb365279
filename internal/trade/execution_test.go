package trade_test

import (
	"math"
	"testing"

	"github.com/atlas-desktop/backtest-engine/internal/trade"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

func approx(t *testing.T, got, want float32, tolerance float64) {
	t.Helper()
	if math.Abs(float64(got-want)) > tolerance {
		t.Fatalf("got %v, want %v (tolerance %v)", got, want, tolerance)
	}
}

// TestRoundTripProfitUnderFee opens then closes a long across two bars
// (100, 110), starting balance 1.0, no slippage, fee 0.001, and checks
// the balance after each leg.
func TestRoundTripProfitUnderFee(t *testing.T) {
	acc := &types.Account{Balance: 1.0}
	slip := types.Slippage{Kind: types.SlippageRelative, Value: 0}
	fee := types.Fee{Rate: 0.001}

	trade.Execute(acc, 1, types.Open, types.Long, 100, types.Full(), slip, fee)
	approx(t, acc.EntryPrice, 100, 1e-6)
	approx(t, acc.Position, 0.01, 1e-6)
	approx(t, acc.Balance, 0.999, 1e-6)

	trade.Execute(acc, 2, types.Close, types.Long, 110, types.Full(), slip, fee)
	approx(t, acc.Balance, 1.0979, 1e-4)
}

// TestStopMarketCloseLongFiresOnLow closes a long via Execute at a bar
// whose low traded through the stop trigger, with absolute slippage
// applied against the fill.
func TestStopMarketCloseLongFiresOnLow(t *testing.T) {
	acc := &types.Account{Position: 0.01, EntryPrice: 100, Balance: 1}
	slip := types.Slippage{Kind: types.SlippageAbsolute, Value: 0.25}
	fee := types.Fee{Rate: 0}

	events := trade.Execute(acc, 9, types.Close, types.Long, 99.5, types.Full(), slip, fee)

	approx(t, acc.ExitPrice, 99.25, 1e-6)
	approx(t, acc.Position, 0, 1e-6)
	approx(t, acc.Balance, 1-0.0075, 1e-4)

	var sawExecuted, sawClosed bool
	for _, e := range events {
		if e.Kind == types.EventOrderExecuted {
			sawExecuted = true
		}
		if e.Kind == types.EventPositionClosed {
			sawClosed = true
		}
	}
	if !sawExecuted || !sawClosed {
		t.Fatalf("expected OrderExecuted and PositionClosed events, got %+v", events)
	}
}

func TestExecuteOpenShortEntryPriceIsWorseThanQuote(t *testing.T) {
	acc := &types.Account{Balance: 1}
	slip := types.Slippage{Kind: types.SlippageRelative, Value: 0.01}
	fee := types.Fee{Rate: 0}

	trade.Execute(acc, 1, types.Open, types.Short, 100, types.Full(), slip, fee)

	if acc.EntryPrice >= 100 {
		t.Fatalf("expected short open entry price worse (lower) than quote 100, got %v", acc.EntryPrice)
	}
	if !acc.IsShort() {
		t.Fatalf("expected account to be short, position=%v", acc.Position)
	}
}

func TestOrdersSendDiscardsCloseWhileFlat(t *testing.T) {
	o := trade.NewOrders(4, 4)
	if o.Send(trade.MarketCloseLong(types.Full())) {
		t.Fatal("close while flat should be discarded")
	}
}
