// Package types holds the shared data model of the backtesting engine:
// observations, orders, account state, events, and metric metadata. These
// are plain value types with no engine behavior attached, separating
// wire-shaped data from the packages that operate on it.
package types

// InputMode selects which observation shape drives a run.
type InputMode int

const (
	// ModeHLCV drives the loop from OHLCV bars.
	ModeHLCV InputMode = iota
	// ModeOrderFlow drives the loop from tick-by-tick order-flow events.
	ModeOrderFlow
)

func (m InputMode) String() string {
	switch m {
	case ModeHLCV:
		return "hlcv"
	case ModeOrderFlow:
		return "order_flow"
	default:
		return "unknown"
	}
}

// Bar is one OHLCV observation. 16 bytes packed, host byte order, matching
// the on-disk record layout.
type Bar struct {
	High   float32
	Low    float32
	Close  float32
	Volume float32
}

// MessageType is the low-5-bit message kind packed into a tick's TypeMask.
type MessageType uint8

const (
	MessageHeartbeat MessageType = 0
	MessageQuote     MessageType = 1
	MessageTrade     MessageType = 2
)

// TypeMask is the decoded form of a tick's packed type-mask byte: low 5
// bits select a MessageType, bits 5-7 are independent flags.
type TypeMask struct {
	Type           MessageType
	Completed      bool
	SellAggressor  bool
	BuyAggressor   bool
}

// DecodeTypeMask unpacks the wire byte:
//
//	bits 0..4  MessageType
//	bit  5     completed
//	bit  6     sell-aggressor / offer
//	bit  7     buy-aggressor / bid
//
// Only the low byte of the widened on-disk u32 is meaningful.
func DecodeTypeMask(raw uint8) TypeMask {
	return TypeMask{
		Type:          MessageType(raw & 0x1F),
		Completed:     raw&(1<<5) != 0,
		SellAggressor: raw&(1<<6) != 0,
		BuyAggressor:  raw&(1<<7) != 0,
	}
}

// EncodeTypeMask packs a TypeMask back into its wire byte. The bitwise
// layout is a wire-format contract: it must round-trip through
// DecodeTypeMask exactly.
func EncodeTypeMask(m TypeMask) uint8 {
	var b uint8
	b = uint8(m.Type) & 0x1F
	if m.Completed {
		b |= 1 << 5
	}
	if m.SellAggressor {
		b |= 1 << 6
	}
	if m.BuyAggressor {
		b |= 1 << 7
	}
	return b
}

// Tick is one order-flow observation. 24 bytes packed on disk; TypeMaskRaw
// is stored widened to u32 for alignment but only its low byte is
// meaningful (decode with DecodeTypeMask).
type Tick struct {
	TimestampNs  int64
	TypeMaskRaw  uint32
	Price        float32
	Amount       float32
	NOrders      float32
}

// TypeMask decodes this tick's packed type-mask byte.
func (t Tick) TypeMask() TypeMask {
	return DecodeTypeMask(uint8(t.TypeMaskRaw))
}
