package types

// Resources are the engine's singleton state: one value per run, shared
// by every system and every account entity. They hold no per-account
// data — that lives in Account, EventBuffer, and the order buffers,
// indexed by entity id.
type Resources struct {
	// LoopIndex is the current tick index; it only ever increases by one
	// per loop iteration.
	LoopIndex int
	// LoopEndBoundExcluded is the first index that is NOT part of the
	// input series; the loop runs while LoopIndex < this bound.
	LoopEndBoundExcluded int
	// WarmupIndex is max(indicator.Init(reader)) across every registered
	// indicator: the first index every indicator is warm
	// for. IncPreLoopIndex starts LoopIndex one past it, or at zero when
	// it is zero (no warm-up).
	WarmupIndex int
	// Break is the cooperative termination flag. Setting
	// it mid-tick does not interrupt the tick in progress.
	Break bool

	Mode InputMode

	// Elapsed is the nanosecond counter since the run's first observation.
	Elapsed int64
	// StartTimestampNs anchors Elapsed in order-flow mode.
	StartTimestampNs int64
	// TimeframeSeconds anchors Elapsed in HLCV mode.
	TimeframeSeconds float64

	Slippage Slippage
	Fee      Fee

	StartingBalance    float32
	RiskFreeRate       float32
	TradingDaysPerYear float32

	// AccountsPerThread, ThreadsPerDevice, ThreadID describe the fleet
	// topology this run's metric/track buffer offsets are computed
	// against.
	AccountsPerThread int
	ThreadsPerDevice  int
	ThreadID          int
	DeviceID          int

	NSamples int

	// Current observation fields, written by the input stage each tick.
	Price       float32
	High        float32
	Low         float32
	Volume      float32
	TimestampNs int64
	Amount      float32
	NOrders     float32
	Type        TypeMask
}
