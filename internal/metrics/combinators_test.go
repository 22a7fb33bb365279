package metrics_test

import (
	"math"
	"testing"

	"github.com/atlas-desktop/backtest-engine/internal/metrics"
	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

func TestSumAccumulates(t *testing.T) {
	store := metrics.NewStore()
	acc := &types.Account{}
	events := types.NewEventBuffer(1)
	res := &types.Resources{}
	sum := metrics.Sum{Out: "S", Dep: "X"}

	for _, x := range []float32{1, 2, 3} {
		store.Set("X", x)
		sum.Update(store, res, acc, events)
	}
	if store.Get("S") != 6 {
		t.Fatalf("expected sum 6, got %v", store.Get("S"))
	}
}

func TestMeanTracksRunningAverage(t *testing.T) {
	store := metrics.NewStore()
	acc := &types.Account{}
	events := types.NewEventBuffer(1)
	res := &types.Resources{}
	mean := metrics.Mean{Out: "M", Dep: "X"}

	for _, x := range []float32{2, 4, 6} {
		store.Set("X", x)
		mean.Update(store, res, acc, events)
	}
	if store.Get("M") != 4 {
		t.Fatalf("expected mean 4, got %v", store.Get("M"))
	}
}

func TestMaxMinSeedFromFirstValueEvenIfNegative(t *testing.T) {
	store := metrics.NewStore()
	acc := &types.Account{}
	events := types.NewEventBuffer(1)
	res := &types.Resources{}
	max := metrics.Max{Out: "Mx", Dep: "X"}
	min := metrics.Min{Out: "Mn", Dep: "X"}

	store.Set("X", -5)
	max.Update(store, res, acc, events)
	min.Update(store, res, acc, events)
	if store.Get("Mx") != -5 || store.Get("Mn") != -5 {
		t.Fatalf("expected both seeded to -5, got max=%v min=%v", store.Get("Mx"), store.Get("Mn"))
	}

	store.Set("X", -10)
	max.Update(store, res, acc, events)
	min.Update(store, res, acc, events)
	if store.Get("Mx") != -5 {
		t.Fatalf("max should stay at -5, got %v", store.Get("Mx"))
	}
	if store.Get("Mn") != -10 {
		t.Fatalf("min should drop to -10, got %v", store.Get("Mn"))
	}
}

func TestStddevMatchesPopulationFormula(t *testing.T) {
	store := metrics.NewStore()
	acc := &types.Account{}
	events := types.NewEventBuffer(1)
	res := &types.Resources{}
	sd := metrics.Stddev{Out: "SD", Dep: "X"}

	values := []float32{2, 4, 4, 4, 5, 5, 7, 9}
	for _, x := range values {
		store.Set("X", x)
		sd.Update(store, res, acc, events)
	}

	var sum, sumSq float64
	for _, x := range values {
		sum += float64(x)
		sumSq += float64(x) * float64(x)
	}
	n := float64(len(values))
	mean := sum / n
	want := math.Sqrt(sumSq/n - mean*mean)

	if math.Abs(float64(store.Get("SD"))-want) > 1e-3 {
		t.Fatalf("got stddev %v, want %v", store.Get("SD"), want)
	}
}
