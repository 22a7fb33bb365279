package trade

import (
	"testing"

	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// TestCheckActiveStopsCancelsOnInvalidatedGuard checks that a stop order
// whose position precondition is violated before firing is canceled: it
// must emit OrderCanceled and never OrderExecuted.
func TestCheckActiveStopsCancelsOnInvalidatedGuard(t *testing.T) {
	acc := &types.Account{Position: 0} // already flat
	o := NewOrders(4, 4)
	o.arm(StopMarketCloseLong(types.Full(), types.AbsoluteTrigger(99)))
	events := types.NewEventBuffer(8)
	res := &types.Resources{Low: 90, High: 110, Price: 95}

	checkActiveStops(res, acc, o, events)

	if len(o.Active()) != 0 {
		t.Fatalf("canceled stop should be removed from the active set, got %d remaining", len(o.Active()))
	}
	var sawCanceled, sawExecuted bool
	for _, e := range events.All() {
		if e.Kind == types.EventOrderCanceled {
			sawCanceled = true
		}
		if e.Kind == types.EventOrderExecuted {
			sawExecuted = true
		}
	}
	if !sawCanceled {
		t.Fatal("expected an OrderCanceled event")
	}
	if sawExecuted {
		t.Fatal("did not expect an OrderExecuted event for a canceled stop")
	}
}

func TestCheckActiveStopsFiresOnLowBreach(t *testing.T) {
	acc := &types.Account{Position: 0.01, EntryPrice: 100, Balance: 1}
	o := NewOrders(4, 4)
	o.arm(StopMarketCloseLong(types.Full(), types.AbsoluteTrigger(99)))
	events := types.NewEventBuffer(8)
	res := &types.Resources{Low: 98.5, High: 101, Price: 99.5, Slippage: types.Slippage{Kind: types.SlippageAbsolute, Value: 0.25}}

	checkActiveStops(res, acc, o, events)

	if len(o.Active()) != 0 {
		t.Fatalf("fired stop should be removed from the active set, got %d remaining", len(o.Active()))
	}
	if acc.Position != 0 {
		t.Fatalf("expected position flattened after stop fires, got %v", acc.Position)
	}
}

func TestCheckActiveStopsDoesNotFireAboveTrigger(t *testing.T) {
	acc := &types.Account{Position: 0.01, EntryPrice: 100, Balance: 1}
	o := NewOrders(4, 4)
	o.arm(StopMarketCloseLong(types.Full(), types.AbsoluteTrigger(99)))
	events := types.NewEventBuffer(8)
	res := &types.Resources{Low: 99.5, High: 101, Price: 100}

	checkActiveStops(res, acc, o, events)

	if len(o.Active()) != 1 {
		t.Fatalf("stop should remain armed when low does not breach trigger, got %d active", len(o.Active()))
	}
	if acc.Position != 0.01 {
		t.Fatalf("position should be unchanged, got %v", acc.Position)
	}
}

func TestResolveTriggerPinsRelativeTriggerAtArmTime(t *testing.T) {
	order := StopMarketCloseLong(types.Full(), types.RelativeTrigger(0.05))
	resolved := resolveTrigger(order, 100)
	if resolved.Trigger.Kind != types.TriggerAbsolute {
		t.Fatal("expected trigger to be pinned to an absolute price")
	}
	if resolved.Trigger.Value != 95 {
		t.Fatalf("expected long stop armed at close*(1-0.05)=95, got %v", resolved.Trigger.Value)
	}

	short := StopMarketCloseShort(types.Full(), types.RelativeTrigger(0.05))
	resolvedShort := resolveTrigger(short, 100)
	if resolvedShort.Trigger.Value != 105 {
		t.Fatalf("expected short stop armed at close*(1+0.05)=105, got %v", resolvedShort.Trigger.Value)
	}
}
