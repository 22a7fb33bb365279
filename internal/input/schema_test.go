package input_test

import (
	"testing"

	"github.com/atlas-desktop/backtest-engine/internal/engine"
	"github.com/atlas-desktop/backtest-engine/internal/input"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

func TestHLCVSchemaWriteRawCopiesBarFields(t *testing.T) {
	bars := []types.Bar{{High: 11, Low: 9, Close: 10, Volume: 100}}
	schema := input.HLCVSchema{Bars: bars, TimeframeSeconds: 60}

	res := &types.Resources{}
	schema.WriteRaw(res, 0)
	if res.High != 11 || res.Low != 9 || res.Price != 10 || res.Volume != 100 {
		t.Fatalf("unexpected resources after WriteRaw: %+v", res)
	}
}

func TestHLCVSchemaWriteDerivedElapsedScalesByTimeframe(t *testing.T) {
	schema := input.HLCVSchema{Bars: make([]types.Bar, 3), TimeframeSeconds: 60}
	res := &types.Resources{}
	schema.WriteDerived(res, 2)
	if res.Elapsed != int64(2*60*1e9) {
		t.Fatalf("expected Elapsed=2*60s in nanoseconds, got %d", res.Elapsed)
	}
}

func TestOrderFlowSchemaWriteRawAndDerived(t *testing.T) {
	ticks := []types.Tick{{
		TimestampNs: 1_000_000_500,
		Price:       101.5,
		Amount:      2,
		NOrders:     3,
		TypeMaskRaw: uint32(types.EncodeTypeMask(types.TypeMask{Type: types.MessageTrade, BuyAggressor: true})),
	}}
	schema := input.OrderFlowSchema{Ticks: ticks, StartTimestampNs: 1_000_000_000}
	res := &types.Resources{}

	schema.WriteRaw(res, 0)
	if res.Price != 101.5 || res.High != 101.5 || res.Low != 101.5 || res.Amount != 2 || res.NOrders != 3 {
		t.Fatalf("unexpected resources after WriteRaw: %+v", res)
	}

	schema.WriteDerived(res, 0)
	if res.Elapsed != 500 {
		t.Fatalf("expected Elapsed = timestamp - start = 500ns, got %d", res.Elapsed)
	}
	if res.Type.Type != types.MessageTrade || !res.Type.BuyAggressor {
		t.Fatalf("expected decoded type mask to carry through, got %+v", res.Type)
	}
}

// TestRegisterSystemsSeedsModeAndBound verifies RegisterSystems sets
// Resources.Mode and Resources.LoopEndBoundExcluded from the schema
// before any phase runs.
func TestRegisterSystemsSeedsModeAndBound(t *testing.T) {
	bars := []types.Bar{{Close: 1}, {Close: 2}, {Close: 3}}
	schema := input.HLCVSchema{Bars: bars, TimeframeSeconds: 1}
	res := &types.Resources{}
	sched := engine.NewScheduler()

	input.RegisterSystems(sched, res, schema, types.ModeHLCV)
	if res.Mode != types.ModeHLCV {
		t.Fatalf("expected Mode seeded to ModeHLCV, got %v", res.Mode)
	}
	if res.LoopEndBoundExcluded != 3 {
		t.Fatalf("expected LoopEndBoundExcluded == len(bars) == 3, got %d", res.LoopEndBoundExcluded)
	}
}
