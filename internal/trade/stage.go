package trade

import (
	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// RegisterSystems wires the Trade-phase system for every account. ordersOf
// and eventsOf map an account's index (World.Accounts() order) to its
// Orders handle and its EventBuffer.
func RegisterSystems(s *engine.Scheduler, ordersOf []*Orders, eventsOf []*types.EventBuffer) {
	s.Add(engine.PhaseTrade, "trade", func(w *engine.World, res *types.Resources, acc *types.Account, idx int) {
		o := ordersOf[idx]
		runTrade(res, acc, o, eventsOf[idx])
		// Mirror the post-trade position so the discard checks Send makes
		// at the next tick's Signal phase see what this tick executed.
		o.refresh(acc.Position)
	})

	// Events are read by the metrics graph's PostTrade systems, so they
	// must survive until the very end of the tick: drained at Last.
	s.Add(engine.PhaseLast, "drain_events", func(w *engine.World, res *types.Resources, acc *types.Account, idx int) {
		eventsOf[idx].Drain()
	})
}

// runTrade checks active stops against the current bar, fills or
// cancels them, then drains the pending buffer.
func runTrade(res *types.Resources, acc *types.Account, o *Orders, events *types.EventBuffer) {
	checkActiveStops(res, acc, o, events)
	drainPending(res, acc, o, events)
}

func checkActiveStops(res *types.Resources, acc *types.Account, o *Orders, events *types.EventBuffer) {
	for i := 0; i < len(o.active); {
		order := o.active[i]

		if !guardStillValid(acc.Position, order) {
			events.Push(types.Event{Kind: types.EventOrderCanceled, OrderID: order.ID, Direction: order.Direction, PositionAction: order.PositionAction})
			i = removeAndShift(o, i)
			continue
		}

		fired := false
		switch order.Direction {
		case types.Long:
			fired = res.Low < order.Trigger.Value
		default:
			fired = res.High > order.Trigger.Value
		}
		if !fired {
			i++
			continue
		}

		for _, e := range Execute(acc, order.ID, order.PositionAction, order.Direction, res.Price, order.Size, res.Slippage, res.Fee) {
			events.Push(e)
		}
		i = removeAndShift(o, i)
	}
}

// removeAndShift removes the active order at i and returns the index the
// caller should continue iterating from (the element that slid into i's
// place, if any).
func removeAndShift(o *Orders, i int) int {
	o.removeActive(i)
	return i
}

// guardStillValid re-checks the position-vs-action guard Orders.Send
// enforced at submission time: the account may have flattened or
// reversed since then.
func guardStillValid(position float32, order types.Order) bool {
	switch order.PositionAction {
	case types.Open:
		return position == 0
	default:
		if position == 0 {
			return false
		}
		if position > 0 && order.Direction != types.Long {
			return false
		}
		if position < 0 && order.Direction != types.Short {
			return false
		}
		return true
	}
}

func drainPending(res *types.Resources, acc *types.Account, o *Orders, events *types.EventBuffer) {
	for _, order := range o.Pending() {
		if order.Kind == types.OrderMarket {
			for _, e := range Execute(acc, order.ID, order.PositionAction, order.Direction, res.Price, order.Size, res.Slippage, res.Fee) {
				events.Push(e)
			}
			continue
		}
		o.arm(resolveTrigger(order, res.Price))
	}
	o.drainPending()
}

// resolveTrigger pins a relative trigger to an absolute price at the
// moment the order is armed: a long stop arms at
// close*(1-x), a short stop at close*(1+x).
func resolveTrigger(order types.Order, close float32) types.Order {
	if order.Trigger.Kind == types.TriggerAbsolute {
		return order
	}
	// Computed in float64 and rounded once, so a price such as
	// 100*(1+0.05) lands on 105 rather than a float32 neighbour.
	c, x := float64(close), float64(order.Trigger.Value)
	if order.Direction == types.Long {
		order.Trigger = types.AbsoluteTrigger(float32(c * (1 - x)))
	} else {
		order.Trigger = types.AbsoluteTrigger(float32(c * (1 + x)))
	}
	return order
}
