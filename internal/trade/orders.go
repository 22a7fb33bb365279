package trade

import (
	"fmt"

	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// Orders is one account's order-submission handle. It owns
// a fixed-capacity pending buffer (orders not yet acted on this tick) and
// a fixed-capacity active buffer (armed stop-market orders waiting for
// their trigger). A strategy only ever reaches Orders through Send/On;
// the Trade phase alone reads pending/active.
type Orders struct {
	pending  []types.Order
	active   []types.Order
	nextID   uint64
	position float32 // mirror of Account.Position, refreshed by the Trade system after each tick's executions
}

// NewOrders constructs an Orders handle with the given pending/active
// buffer capacities.
func NewOrders(pendingCap, activeCap int) *Orders {
	return &Orders{
		pending: make([]types.Order, 0, pendingCap),
		active:  make([]types.Order, 0, activeCap),
	}
}

// refresh updates the handle's position mirror; called by the Trade
// system after it has executed this tick's orders, so the discard checks
// Send makes during the next tick's Signal phase see the current
// position. A handle that the Trade system has never refreshed reads as
// flat.
func (o *Orders) refresh(position float32) { o.position = position }

// Send enforces the discard rules (open while open → drop; close while
// flat → drop; close with wrong direction → drop) before assigning an
// id and pushing to the pending buffer. It reports whether the order
// was accepted.
func (o *Orders) Send(order types.Order) bool {
	if !o.admissible(order) {
		return false
	}
	if len(o.pending) == cap(o.pending) {
		panic(fmt.Sprintf("trade: pending order buffer exhausted (capacity %d)", cap(o.pending)))
	}
	o.nextID++
	order.ID = o.nextID
	o.pending = append(o.pending, order)
	return true
}

// On sends order only if cond is true, otherwise it is a no-op (not a
// discard — On is a convenience wrapper around Send).
func (o *Orders) On(cond bool, order types.Order) bool {
	if !cond {
		return false
	}
	return o.Send(order)
}

func (o *Orders) admissible(order types.Order) bool {
	isOpen := o.position != 0
	switch order.PositionAction {
	case types.Open:
		return !isOpen
	default: // types.Close
		if !isOpen {
			return false
		}
		if o.position > 0 && order.Direction != types.Long {
			return false
		}
		if o.position < 0 && order.Direction != types.Short {
			return false
		}
		return true
	}
}

// Pending returns this tick's not-yet-acted-on orders.
func (o *Orders) Pending() []types.Order { return o.pending }

// Active returns the currently armed stop-market orders.
func (o *Orders) Active() []types.Order { return o.active }

// drainPending clears the pending buffer after the Trade system has acted
// on every entry.
func (o *Orders) drainPending() { o.pending = o.pending[:0] }

// arm moves order into the active buffer (a stop-market order that didn't
// fire immediately). Fails fast if the fixed-capacity active buffer is
// already full, the same contract-violation treatment Send gives the
// pending buffer.
func (o *Orders) arm(order types.Order) {
	if len(o.active) == cap(o.active) {
		panic(fmt.Sprintf("trade: active order buffer exhausted (capacity %d)", cap(o.active)))
	}
	o.active = append(o.active, order)
}

// removeActive drops the active order at i, preserving the order of the
// remaining entries (the active buffer is small and order-sensitive only
// in that FIFO-ish submission order roughly matches priority, not a hard
// requirement).
func (o *Orders) removeActive(i int) {
	o.active = append(o.active[:i], o.active[i+1:]...)
}

// MarketOpenLong builds a market order opening a long position of size.
func MarketOpenLong(size types.Size) types.Order {
	return types.Order{Kind: types.OrderMarket, Size: size, PositionAction: types.Open, Direction: types.Long}
}

// MarketOpenShort builds a market order opening a short position of size.
func MarketOpenShort(size types.Size) types.Order {
	return types.Order{Kind: types.OrderMarket, Size: size, PositionAction: types.Open, Direction: types.Short}
}

// MarketCloseLong builds a market order closing size of a long position.
func MarketCloseLong(size types.Size) types.Order {
	return types.Order{Kind: types.OrderMarket, Size: size, PositionAction: types.Close, Direction: types.Long}
}

// MarketCloseShort builds a market order closing size of a short position.
func MarketCloseShort(size types.Size) types.Order {
	return types.Order{Kind: types.OrderMarket, Size: size, PositionAction: types.Close, Direction: types.Short}
}

// StopMarketCloseLong builds a stop-market order closing size of a long
// position once the bar's low trades through trigger.
func StopMarketCloseLong(size types.Size, trigger types.Trigger) types.Order {
	return types.Order{Kind: types.OrderStopMarket, Size: size, PositionAction: types.Close, Direction: types.Long, Trigger: trigger}
}

// StopMarketCloseShort builds a stop-market order closing size of a short
// position once the bar's high trades through trigger.
func StopMarketCloseShort(size types.Size, trigger types.Trigger) types.Order {
	return types.Order{Kind: types.OrderStopMarket, Size: size, PositionAction: types.Close, Direction: types.Short, Trigger: trigger}
}
