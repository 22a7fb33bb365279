package types

// SimulationRelay identifies at which simulation level a metric resets.
// metrics.Declaration carries one, but the metrics graph does not read
// it: no metric is skipped or demoted because of its relay, and a
// declaration's UpdatePhase and Condition alone decide when it runs.
type SimulationRelay int

const (
	SimulationEnding SimulationRelay = iota
	BacktestEnding
	BlockEnding
)

// ExecutionOrder is a metric's topological layer: max(deps.order)+1.
// Independent metrics share a layer and run in declaration order within
// it.
type ExecutionOrder int

const (
	Order0 ExecutionOrder = iota
	Order1
	Order2
	Order3
	Order4
	Order5
	Order6
	Order7
	Order8
	Order9
)

// MaxExecutionOrder bounds the number of PostTrade/PostBlock layers the
// fixed scheduler provides.
const MaxExecutionOrder = 9

// UpdatePhase selects which scheduler phase family a metric update runs
// in: UpdateRelay maps onto PostTrade0..8 (every tick, inside the loop),
// BlockRelay onto PostBlock0..8 (once, after the loop terminates).
type UpdatePhase int

const (
	UpdateRelay UpdatePhase = iota
	BlockRelay
)

// ConditionResult is the outcome of evaluating a metric's Condition for
// the current tick.
type ConditionResult int

const (
	Run ConditionResult = iota
	Skip
)
