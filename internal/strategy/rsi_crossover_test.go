package strategy_test

import (
	"testing"

	"github.com/atlas-desktop/backtest-engine/internal/indicator"
	"github.com/atlas-desktop/backtest-engine/internal/strategy"
	"github.com/atlas-desktop/backtest-engine/internal/trade"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// TestRSICrossoverOpensOnCrossUpThroughOversold checks the entry leg: a
// flat account opens long the tick RSI crosses up through Oversold.
func TestRSICrossoverOpensOnCrossUpThroughOversold(t *testing.T) {
	s := strategy.RSICrossover{IndicatorName: "rsi", Oversold: 30, Overbought: 70}
	fn := s.Strategy()

	var rsi indicator.Binding
	rsi.Value.Set(28)
	rsi.Value.Snapshot() // prev=28
	rsi.Value.Set(31)    // cur=31: crosses up through 30

	acc := &types.Account{}
	orders := trade.NewOrders(4, 4)
	fn(strategy.Context{
		Resources:  &types.Resources{},
		Account:    acc,
		Indicators: map[string]*indicator.Binding{"rsi": &rsi},
		Orders:     orders,
	})

	if len(orders.Pending()) != 1 {
		t.Fatalf("expected one pending order, got %d", len(orders.Pending()))
	}
	if orders.Pending()[0].PositionAction != types.Open || orders.Pending()[0].Direction != types.Long {
		t.Fatalf("expected a long-open order, got %+v", orders.Pending()[0])
	}
}

// TestRSICrossoverClosesOnCrossDownThroughOverbought checks the exit
// leg: a long account closes the tick RSI crosses down through
// Overbought.
func TestRSICrossoverClosesOnCrossDownThroughOverbought(t *testing.T) {
	s := strategy.RSICrossover{IndicatorName: "rsi", Oversold: 30, Overbought: 70}
	fn := s.Strategy()

	var rsi indicator.Binding
	rsi.Value.Set(72)
	rsi.Value.Snapshot() // prev=72
	rsi.Value.Set(69)    // cur=69: crosses down through 70

	acc := &types.Account{Position: 0.01} // long
	orders := trade.NewOrders(4, 4)
	fn(strategy.Context{
		Resources:  &types.Resources{},
		Account:    acc,
		Indicators: map[string]*indicator.Binding{"rsi": &rsi},
		Orders:     orders,
	})

	if len(orders.Pending()) != 1 {
		t.Fatalf("expected one pending order, got %d", len(orders.Pending()))
	}
	if orders.Pending()[0].PositionAction != types.Close || orders.Pending()[0].Direction != types.Long {
		t.Fatalf("expected a long-close order, got %+v", orders.Pending()[0])
	}
}

func TestRSICrossoverDoesNothingWithoutACross(t *testing.T) {
	s := strategy.RSICrossover{IndicatorName: "rsi", Oversold: 30, Overbought: 70}
	fn := s.Strategy()

	var rsi indicator.Binding
	rsi.Value.Set(50)
	rsi.Value.Snapshot()
	rsi.Value.Set(51)

	acc := &types.Account{}
	orders := trade.NewOrders(4, 4)
	fn(strategy.Context{
		Resources:  &types.Resources{},
		Account:    acc,
		Indicators: map[string]*indicator.Binding{"rsi": &rsi},
		Orders:     orders,
	})

	if len(orders.Pending()) != 0 {
		t.Fatalf("expected no orders absent a cross, got %d", len(orders.Pending()))
	}
}

func TestRangeValuesIncludesMaxOnExactStep(t *testing.T) {
	r := strategy.Range{Min: 10, Max: 20, Step: 5}
	vals := r.Values()
	want := []float32{10, 15, 20}
	if len(vals) != len(want) {
		t.Fatalf("expected %v, got %v", want, vals)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, vals)
		}
	}
}

func TestRangeValuesZeroStepReturnsJustMin(t *testing.T) {
	r := strategy.Range{Min: 7, Max: 20, Step: 0}
	vals := r.Values()
	if len(vals) != 1 || vals[0] != 7 {
		t.Fatalf("expected [7], got %v", vals)
	}
}
