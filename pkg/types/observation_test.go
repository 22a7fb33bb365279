package types_test

import (
	"testing"

	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// TestTypeMaskRoundTrips checks the wire-format contract: every
// combination of MessageType and the three independent flag bits must
// survive an Encode/Decode round trip exactly.
func TestTypeMaskRoundTrips(t *testing.T) {
	cases := []types.TypeMask{
		{Type: types.MessageHeartbeat},
		{Type: types.MessageQuote, Completed: true},
		{Type: types.MessageTrade, SellAggressor: true},
		{Type: types.MessageTrade, BuyAggressor: true},
		{Type: types.MessageTrade, Completed: true, SellAggressor: true, BuyAggressor: true},
	}
	for _, tm := range cases {
		raw := types.EncodeTypeMask(tm)
		got := types.DecodeTypeMask(raw)
		if got != tm {
			t.Fatalf("round trip mismatch: sent %+v, got %+v (raw=%#x)", tm, got, raw)
		}
	}
}

func TestDecodeTypeMaskMasksOnlyLowFiveBitsForType(t *testing.T) {
	// A stray high bit in the low nibble must not bleed into the flag
	// bits, and vice versa — Type and the flags are independent fields.
	raw := uint8(types.MessageTrade) | 1<<7
	tm := types.DecodeTypeMask(raw)
	if tm.Type != types.MessageTrade {
		t.Fatalf("expected Type to decode to MessageTrade, got %v", tm.Type)
	}
	if !tm.BuyAggressor {
		t.Fatal("expected bit 7 to decode as BuyAggressor")
	}
	if tm.Completed || tm.SellAggressor {
		t.Fatalf("expected only BuyAggressor set, got %+v", tm)
	}
}

func TestTickTypeMaskUsesOnlyLowByteOfWidenedField(t *testing.T) {
	tick := types.Tick{TypeMaskRaw: uint32(types.MessageQuote) | 0xFFFFFF00}
	tm := tick.TypeMask()
	if tm.Type != types.MessageQuote {
		t.Fatalf("expected high bytes of the widened field ignored, got Type=%v", tm.Type)
	}
}

func TestInputModeString(t *testing.T) {
	if types.ModeHLCV.String() != "hlcv" {
		t.Fatalf("expected \"hlcv\", got %q", types.ModeHLCV.String())
	}
	if types.ModeOrderFlow.String() != "order_flow" {
		t.Fatalf("expected \"order_flow\", got %q", types.ModeOrderFlow.String())
	}
}
