// Package telemetry implements the low-overhead profiling ring buffer:
// lock-free record acquisition from many producer threads, one-shot TSC
// calibration, and a background goroutine that serializes the buffer to
// a trace sink.
package telemetry

// Kind tags which payload fields of a Record are meaningful.
type Kind uint8

const (
	KindCalibration Kind = iota
	KindEpoch
	KindTimestamp
	KindIntervalStart
	KindIntervalEnd
	KindIntervalAnnotation
	KindDynamicAnnotation
)

// Record is a tagged-union telemetry event. It is a plain value type
// (no pointers into shared state except the description strings, which
// are never mutated after being handed to Put) so a producer can write
// one into its acquired slot without any further allocation beyond the
// dynamic-annotation case.
type Record struct {
	Kind     Kind
	ThreadID int64

	Cycle          uint64
	TicksPerSecond float64
	IntervalID     uint32
	Desc           string // static description, shared with the caller
	Dynamic        string // owned copy for KindDynamicAnnotation
}
