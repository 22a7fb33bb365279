package metrics

import (
	"math"

	"github.com/atlas-desktop/backtest-engine/pkg/types"
)

// Sum accumulates Dep into Out every tick it runs: Out[t] = Out[t-1] +
// Dep[t].
type Sum struct{ Out, Dep string }

func (m Sum) Name() string { return m.Out }
func (m Sum) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	store.Set(m.Out, store.Get(m.Out)+store.Get(m.Dep))
}

// Count increments Out by one every tick it runs, counting how many
// ticks satisfied its declaration's Condition. Mean keeps its own count
// and does not use it.
type Count struct{ Out string }

func (m Count) Name() string { return m.Out }
func (m Count) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	store.Set(m.Out, store.Get(m.Out)+1)
}

// Mean maintains a running mean of Dep. It keeps its own running sum and
// count under derived keys (Out+"#sum", Out+"#count") rather than
// sharing state across accounts, since a Metric value is declared once
// but Update runs once per account against that account's own Store.
type Mean struct{ Out, Dep string }

func (m Mean) Name() string { return m.Out }
func (m Mean) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	sumKey, countKey := m.Out+"#sum", m.Out+"#count"
	sum := store.Get(sumKey) + store.Get(m.Dep)
	count := store.Get(countKey) + 1
	store.Set(sumKey, sum)
	store.Set(countKey, count)
	store.Set(m.Out, sum/count)
}

// Max maintains a running maximum of Dep. The first tick seeds Out from
// Dep directly rather than comparing against the zero value, so a
// negative-valued Dep is still tracked correctly from tick one.
type Max struct{ Out, Dep string }

func (m Max) Name() string { return m.Out }
func (m Max) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	seenKey := m.Out + "#seen"
	cur := store.Get(m.Dep)
	if store.Get(seenKey) == 0 {
		store.Set(seenKey, 1)
		store.Set(m.Out, cur)
		return
	}
	if cur > store.Get(m.Out) {
		store.Set(m.Out, cur)
	}
}

// Min maintains a running minimum of Dep, seeded the same way as Max.
type Min struct{ Out, Dep string }

func (m Min) Name() string { return m.Out }
func (m Min) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	seenKey := m.Out + "#seen"
	cur := store.Get(m.Dep)
	if store.Get(seenKey) == 0 {
		store.Set(seenKey, 1)
		store.Set(m.Out, cur)
		return
	}
	if cur < store.Get(m.Out) {
		store.Set(m.Out, cur)
	}
}

// Squared writes Dep² into Out, every tick it runs.
type Squared struct{ Out, Dep string }

func (m Squared) Name() string { return m.Out }
func (m Squared) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	v := store.Get(m.Dep)
	store.Set(m.Out, v*v)
}

// Mul writes A×B into Out, every tick it runs.
type Mul struct{ Out, A, B string }

func (m Mul) Name() string { return m.Out }
func (m Mul) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	store.Set(m.Out, store.Get(m.A)*store.Get(m.B))
}

// Stddev maintains a running population standard deviation of Dep using
// Welford's online algorithm (count/mean/M2 kept under derived Store
// keys), rather than reading a tracker's recorded history buffer
// directly: Welford's accumulator is mathematically equivalent over the
// same sequence of values and avoids threading a per-account
// track-buffer index through the Metric interface (Update only receives
// a per-account Store, matching every other combinator here).
type Stddev struct{ Out, Dep string }

func (m Stddev) Name() string { return m.Out }
func (m Stddev) Update(store *Store, _ *types.Resources, _ *types.Account, _ *types.EventBuffer) {
	countKey, meanKey, m2Key := m.Out+"#n", m.Out+"#mean", m.Out+"#m2"
	n := store.Get(countKey) + 1
	x := store.Get(m.Dep)
	mean := store.Get(meanKey)
	delta := x - mean
	mean += delta / n
	m2 := store.Get(m2Key) + delta*(x-mean)

	store.Set(countKey, n)
	store.Set(meanKey, mean)
	store.Set(m2Key, m2)
	if n < 2 {
		store.Set(m.Out, 0)
		return
	}
	store.Set(m.Out, float32(math.Sqrt(float64(m2/n))))
}
