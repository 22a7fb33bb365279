package metrics

import (
	"fmt"
	"unsafe"
)

// metricSize is asserted once at package init: every metric output must
// be exactly 4 bytes. float32 guarantees this at compile time in Go, so
// the check below can never fail — it documents the contract rather
// than defending against it.
const metricSize = 4

func init() {
	if unsafe.Sizeof(float32(0)) != metricSize {
		panic(fmt.Sprintf("metrics: metric size must be %d bytes", metricSize))
	}
}

// FieldOffset identifies one metric field's position in a layout
// described once at build time (an index into the declared metric set,
// not a byte offset — MetricBuffer.offset turns it into one).
type FieldOffset int

// Topology describes the fleet shape a MetricBuffer/TrackBuffer's offset
// formulas are computed against: accounts per thread and threads per
// device.
type Topology struct {
	AccountsPerThread int
	ThreadsPerDevice  int
}

// MetricBuffer is a caller-owned byte buffer holding every account's
// metric outputs for one thread's worth of accounts, packed per the
// offset formula.
type MetricBuffer struct {
	buf  []byte
	topo Topology
}

// NewMetricBuffer wraps buf, which must be large enough for every field
// this run declares; callers size it themselves (it is caller-owned).
func NewMetricBuffer(buf []byte, topo Topology) *MetricBuffer {
	return &MetricBuffer{buf: buf, topo: topo}
}

func (b *MetricBuffer) offset(f FieldOffset, account, thread int) int {
	return int(f)*b.topo.AccountsPerThread*b.topo.ThreadsPerDevice*metricSize +
		account*b.topo.ThreadsPerDevice*metricSize +
		thread*metricSize
}

// Read returns the metric value stored at (f, account, thread).
func (b *MetricBuffer) Read(f FieldOffset, account, thread int) float32 {
	off := b.offset(f, account, thread)
	return bytesToFloat32(b.buf[off : off+metricSize])
}

// Write stores v at (f, account, thread).
func (b *MetricBuffer) Write(f FieldOffset, account, thread int, v float32) {
	off := b.offset(f, account, thread)
	float32ToBytes(b.buf[off:off+metricSize], v)
}

// TrackBuffer is a caller-owned byte buffer holding every tracker's
// sampled history for one thread's worth of accounts, packed per the
// offset formula.
type TrackBuffer struct {
	buf       []byte
	nSamples  int
	nTrackers int
	topo      Topology
}

// NewTrackBuffer wraps buf, sized for nTrackers trackers times nSamples
// samples times the account/thread topology.
func NewTrackBuffer(buf []byte, nTrackers, nSamples int, topo Topology) *TrackBuffer {
	return &TrackBuffer{buf: buf, nSamples: nSamples, nTrackers: nTrackers, topo: topo}
}

func (b *TrackBuffer) offset(tracker, account, sample, thread int) int {
	trackStride := b.nSamples * metricSize
	threadStride := b.nTrackers * trackStride
	accountStride := b.topo.ThreadsPerDevice * b.topo.AccountsPerThread * threadStride
	return account*accountStride + thread*threadStride + tracker*trackStride + sample*metricSize
}

// Append writes value as sample number `sample` of tracker `tracker` for
// the given account/thread. The track buffer's capacity is
// caller-supplied with no run-time bound check elsewhere, so this
// asserts on entry: a sample index at or past nSamples is a caller
// sizing bug, not a condition to paper over with silent truncation.
func (b *TrackBuffer) Append(tracker, account, sample, thread int, value float32) {
	if sample < 0 || sample >= b.nSamples {
		panic(fmt.Sprintf("metrics: track sample %d out of bounds (n_samples=%d)", sample, b.nSamples))
	}
	off := b.offset(tracker, account, sample, thread)
	float32ToBytes(b.buf[off:off+metricSize], value)
}

// Read returns the sampled value at (tracker, account, sample, thread).
func (b *TrackBuffer) Read(tracker, account, sample, thread int) float32 {
	off := b.offset(tracker, account, sample, thread)
	return bytesToFloat32(b.buf[off : off+metricSize])
}

// bytesToFloat32 and float32ToBytes reinterpret raw bytes in host byte
// order, matching the on-disk/in-memory contract for every packed
// record in this engine.
func bytesToFloat32(b []byte) float32 {
	return *(*float32)(unsafe.Pointer(&b[0]))
}

func float32ToBytes(b []byte, v float32) {
	*(*float32)(unsafe.Pointer(&b[0])) = v
}
