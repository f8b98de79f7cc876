package telemetry

import "time"

// readTSC returns a monotonically increasing cycle-like counter. The
// original design reads the CPU's time-stamp counter with a serializing
// instruction (RDTSCP) so the recorded value cannot be reordered past
// surrounding instructions. Go has no portable way to emit that
// instruction without cgo or per-architecture assembly, and nothing in
// the dependency pack offers it either, so this substitutes the
// runtime's monotonic clock (also implicitly serializing with respect to
// the calling goroutine's program order) as the "cycle" source. A real
// build targeting a specific architecture could replace this with an
// assembly stub without changing anything above it.
func readTSC() uint64 {
	return uint64(time.Since(tscBase))
}

// tscBase anchors readTSC: time.Since reads the monotonic clock, so the
// counter is nanoseconds elapsed since package initialization.
var tscBase = time.Now()

// Calibration is the one-shot measurement of the "cycle" rate against
// wall-clock time, performed once at session start.
type Calibration struct {
	TicksPerSecond float64
}

// calibrate samples the cycle counter, sleeps for d, samples again, and
// derives ticks per second from the elapsed wall-clock time. The default
// session uses d ~= 1s, matching the original one-shot calibration; tests
// pass a much shorter d.
func calibrate(d time.Duration) Calibration {
	startWall := time.Now()
	startTSC := readTSC()

	time.Sleep(d)

	endWall := time.Now()
	endTSC := readTSC()

	ticks := float64(endTSC - startTSC)
	wallNs := float64(endWall.Sub(startWall).Nanoseconds())
	if wallNs <= 0 {
		wallNs = 1
	}
	return Calibration{TicksPerSecond: ticks / wallNs * 1e9}
}
