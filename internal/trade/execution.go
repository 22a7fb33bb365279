// Package trade implements the order and execution state machine:
// per-account pending/active order buffers, the discard rules
// Orders.Send enforces, and the four-shape execution primitive applied
// in the Trade phase.
package trade

import "github.com/atlas-desktop/backtest-engine/pkg/types"

// Execute applies one fill to acc and returns the events it produces.
// action/direction select which of the four execute* shapes below runs;
// price is the bar close (or tick price) before slippage, size is the
// order's declared Size, slip/fee are the run's configured models.
func Execute(acc *types.Account, orderID uint64, action types.PositionAction, dir types.Direction, price float32, size types.Size, slip types.Slippage, fee types.Fee) []types.Event {
	switch {
	case action == types.Open && dir == types.Long:
		return executeOpenLong(acc, orderID, price, size, slip, fee)
	case action == types.Open && dir == types.Short:
		return executeOpenShort(acc, orderID, price, size, slip, fee)
	case action == types.Close && dir == types.Long:
		return executeCloseLong(acc, orderID, price, size, slip, fee)
	default:
		return executeCloseShort(acc, orderID, price, size, slip, fee)
	}
}

func sizeToQtyOpen(size types.Size, balance, entryPrice float32) float32 {
	if size.Kind == types.SizeAbsolute {
		return size.Value
	}
	return balance / entryPrice * size.Value
}

func sizeToQtyClose(size types.Size, position float32) float32 {
	if size.Kind == types.SizeAbsolute {
		return size.Value
	}
	abs := position
	if abs < 0 {
		abs = -abs
	}
	return abs * size.Value
}

func executeOpenLong(acc *types.Account, orderID uint64, price float32, size types.Size, slip types.Slippage, fee types.Fee) []types.Event {
	entryPrice := slip.Apply(price, true)
	q := sizeToQtyOpen(size, acc.Balance, entryPrice)
	acc.EntryPrice = entryPrice
	acc.Position += q
	acc.Balance -= q * entryPrice * fee.Rate

	return []types.Event{
		{Kind: types.EventOrderExecuted, OrderID: orderID, Direction: types.Long, PositionAction: types.Open, Size: q},
		{Kind: types.EventPositionOpened, OrderID: orderID, Direction: types.Long, PositionAction: types.Open, Size: q},
		{Kind: types.EventPositionUpdated, OrderID: orderID, Direction: types.Long, PositionAction: types.Open, Size: q},
	}
}

func executeOpenShort(acc *types.Account, orderID uint64, price float32, size types.Size, slip types.Slippage, fee types.Fee) []types.Event {
	entryPrice := slip.Apply(price, false)
	q := sizeToQtyOpen(size, acc.Balance, entryPrice)
	acc.EntryPrice = entryPrice
	acc.Position = -q
	acc.Balance -= q * entryPrice * fee.Rate

	return []types.Event{
		{Kind: types.EventOrderExecuted, OrderID: orderID, Direction: types.Short, PositionAction: types.Open, Size: q},
		{Kind: types.EventPositionOpened, OrderID: orderID, Direction: types.Short, PositionAction: types.Open, Size: q},
		{Kind: types.EventPositionUpdated, OrderID: orderID, Direction: types.Short, PositionAction: types.Open, Size: q},
	}
}

func executeCloseLong(acc *types.Account, orderID uint64, price float32, size types.Size, slip types.Slippage, fee types.Fee) []types.Event {
	exitPrice := slip.Apply(price, false)
	q := sizeToQtyClose(size, acc.Position)
	acc.Position -= q
	acc.Balance += (exitPrice-acc.EntryPrice)*q - exitPrice*q*fee.Rate
	acc.ExitPrice = exitPrice
	delta := (exitPrice - acc.EntryPrice) * q

	return []types.Event{
		{Kind: types.EventOrderExecuted, OrderID: orderID, Direction: types.Long, PositionAction: types.Close, Size: q},
		{Kind: types.EventPositionClosed, OrderID: orderID, Direction: types.Long, PositionAction: types.Close, Size: q, BalanceDelta: delta},
		{Kind: types.EventPositionUpdated, OrderID: orderID, Direction: types.Long, PositionAction: types.Close, Size: q},
	}
}

func executeCloseShort(acc *types.Account, orderID uint64, price float32, size types.Size, slip types.Slippage, fee types.Fee) []types.Event {
	exitPrice := slip.Apply(price, true)
	q := sizeToQtyClose(size, acc.Position)
	acc.Position += q
	acc.Balance += (exitPrice-acc.EntryPrice)*q - exitPrice*q*fee.Rate
	acc.ExitPrice = exitPrice
	delta := (exitPrice - acc.EntryPrice) * q

	return []types.Event{
		{Kind: types.EventOrderExecuted, OrderID: orderID, Direction: types.Short, PositionAction: types.Close, Size: q},
		{Kind: types.EventPositionClosed, OrderID: orderID, Direction: types.Short, PositionAction: types.Close, Size: q, BalanceDelta: delta},
		{Kind: types.EventPositionUpdated, OrderID: orderID, Direction: types.Short, PositionAction: types.Close, Size: q},
	}
}
