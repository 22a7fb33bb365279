package types

// Account is the hot per-entity data structure: signed position,
// entry/exit prices, and cash balance. All fields are float32 to
// satisfy the packed-memory-layout contract (sizeof(metric) == 4 bytes
// for every numeric output).
type Account struct {
	Position    float32 // >0 long, <0 short, ==0 flat
	EntryPrice  float32 // valid only while Position != 0
	ExitPrice   float32 // price of the most recent close
	Balance     float32 // cash plus realized P&L
	PrevBalance float32 // balance snapshot at the end of the previous tick
}

// IsFlat reports whether the account holds no position: Position == 0
// iff no open position, and EntryPrice is unused by any downstream read
// in that state.
func (a *Account) IsFlat() bool { return a.Position == 0 }

// IsLong reports whether the account holds a long position.
func (a *Account) IsLong() bool { return a.Position > 0 }

// IsShort reports whether the account holds a short position.
//
// The original reference predicate returns `self.0 > 0.`, identical to
// is_long — almost certainly a copy-paste bug. This implementation uses
// the corrected predicate (Position < 0) rather than preserving it.
func (a *Account) IsShort() bool { return a.Position < 0 }

// SnapshotPrevBalance copies Balance into PrevBalance. Invoked once per
// tick at the IncLoopIndex phase, after that tick's trade and PostTrade
// metric updates, so that the next tick's BalanceDelta-family metrics
// read this tick's closing balance.
func (a *Account) SnapshotPrevBalance() { a.PrevBalance = a.Balance }
