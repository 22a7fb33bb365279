package strategy

import (
	"github.com/atlas-desktop/backtest-engine/internal/trade"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// RSICrossover is a reference strategy:
// it opens a full-size long the tick RSI crosses up through Oversold,
// and closes it the tick RSI crosses down through Overbought. It reads
// exactly the fields Context promises a strategy: one indicator, no
// hyperparameters, no metric reads beyond what Orders' own discard rules
// already guard.
type RSICrossover struct {
	IndicatorName string
	Oversold      float32
	Overbought    float32
}

// Strategy returns the Strategy function bound to this configuration.
func (s RSICrossover) Strategy() Strategy {
	return func(ctx Context) {
		rsi := ctx.Indicators[s.IndicatorName]
		if rsi == nil {
			return
		}

		if ctx.Account.IsFlat() && rsi.Value.CrossesFromBelow(s.Oversold) {
			ctx.Orders.Send(trade.MarketOpenLong(types.Full()))
			return
		}
		if ctx.Account.IsLong() && rsi.Value.CrossesFromAbove(s.Overbought) {
			ctx.Orders.Send(trade.MarketCloseLong(types.Full()))
		}
	}
}
