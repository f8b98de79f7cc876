package telemetry

import (
	"context"
	"io"
	"sync/atomic"
	"time"
)

// DefaultRingSize matches the original design's fixed buffer capacity.
const DefaultRingSize = 10000

// DefaultDrainInterval is how often the background consumer wakes to
// serialize newly produced records (~1Hz).
const DefaultDrainInterval = time.Second

// DefaultCalibrationWindow is how long the one-shot TSC calibration
// samples wall-clock time against the cycle counter.
const DefaultCalibrationWindow = time.Second

// Session bundles a Ring with its calibration baseline and the
// background drain goroutine that periodically serializes it. All
// recording methods are safe to call from any goroutine and become
// no-ops once the session is inactive (never started, or already shut
// down).
type Session struct {
	ring *Ring
	out  io.Writer

	active      atomic.Bool
	epoch       uint64
	calibration Calibration
	intervalSeq atomic.Uint32
	lastDrained atomic.Int64

	drainInterval     time.Duration
	calibrationWindow time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSession builds a Session writing its trace to out, with a ring of
// ringSize records. Call Start to calibrate and begin draining.
func NewSession(ringSize int, out io.Writer) *Session {
	return &Session{
		ring:              NewRing(ringSize),
		out:               out,
		drainInterval:     DefaultDrainInterval,
		calibrationWindow: DefaultCalibrationWindow,
	}
}

// WithIntervals overrides the drain period and calibration window; meant
// for tests that cannot afford to wait a full second.
func (s *Session) WithIntervals(drain, calibration time.Duration) *Session {
	s.drainInterval = drain
	s.calibrationWindow = calibration
	return s
}

// Start activates the session: it marks telemetry active, runs the TSC
// calibration, emits the calibration and epoch records, and launches the
// background drain goroutine. Producers may call the recording methods
// concurrently with Start; any that land during calibration are ordered
// (in the ring) before the calibration/epoch records, which is an
// accepted quirk of activating before calibration completes — callers
// should call Start before handing the session to producer goroutines.
func (s *Session) Start() {
	s.active.Store(true)

	s.calibration = calibrate(s.calibrationWindow)
	s.epoch = readTSC()

	s.ring.Put(Record{Kind: KindCalibration, TicksPerSecond: s.calibration.TicksPerSecond})
	s.ring.Put(Record{Kind: KindEpoch, Cycle: s.epoch})

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.drainLoop()
}

// Epoch returns the baseline cycle value subtracted from subsequent
// event cycles during serialization.
func (s *Session) Epoch() uint64 { return s.epoch }

// Timestamp records a point event.
func (s *Session) Timestamp(threadID int64, desc string) {
	if !s.active.Load() {
		return
	}
	s.ring.Put(Record{Kind: KindTimestamp, ThreadID: threadID, Cycle: readTSC(), Desc: desc})
}

// IntervalStart allocates a new globally unique interval id and records
// the interval's beginning.
func (s *Session) IntervalStart(threadID int64, desc string) uint32 {
	if !s.active.Load() {
		return 0
	}
	id := s.intervalSeq.Add(1) - 1
	s.ring.Put(Record{Kind: KindIntervalStart, ThreadID: threadID, Cycle: readTSC(), IntervalID: id, Desc: desc})
	return id
}

// IntervalStop records the end of a previously started interval.
func (s *Session) IntervalStop(threadID int64, intervalID uint32, desc string) {
	if !s.active.Load() {
		return
	}
	s.ring.Put(Record{Kind: KindIntervalEnd, ThreadID: threadID, Cycle: readTSC(), IntervalID: intervalID, Desc: desc})
}

// IntervalAnnotate attaches a static label to an existing interval.
func (s *Session) IntervalAnnotate(subject int64, intervalID uint32, desc string) {
	if !s.active.Load() {
		return
	}
	s.ring.Put(Record{Kind: KindIntervalAnnotation, ThreadID: subject, IntervalID: intervalID, Desc: desc})
}

// IntervalAnnotateDynamic attaches a caller-built label to an existing
// interval. Unlike the C original there is no explicit ownership
// transfer to free on the consumer side — desc is an immutable Go string
// and the garbage collector reclaims it once the record is overwritten.
func (s *Session) IntervalAnnotateDynamic(subject int64, intervalID uint32, desc string) {
	if !s.active.Load() {
		return
	}
	s.ring.Put(Record{Kind: KindDynamicAnnotation, ThreadID: subject, IntervalID: intervalID, Dynamic: desc})
}

// drainOnce emits every record between the last-drained cursor and the
// current producer cursor, in arena order, splitting into two ranges if
// the producer has wrapped past the consumer.
func (s *Session) drainOnce() {
	end := s.ring.Cursor()
	start := s.lastDrained.Load()

	if end < start {
		s.emitRange(start, int64(s.ring.Size()))
		s.emitRange(0, end)
	} else {
		s.emitRange(start, end)
	}
	s.lastDrained.Store(end)
}

func (s *Session) emitRange(from, to int64) {
	for i := from; i < to; i++ {
		writeRecord(s.out, s.ring.At(i), s.epoch)
	}
}

func (s *Session) drainLoop() {
	ticker := time.NewTicker(s.drainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			s.drainOnce()
			close(s.doneCh)
			return
		case <-ticker.C:
			s.drainOnce()
		}
	}
}

// Shutdown clears the continuation flag cooperatively: the drain
// goroutine finishes its current iteration, flushes whatever remains,
// and exits. In-flight producers racing the shutdown may still write
// slots that are never serialized; telemetry is best-effort and this is
// accepted, not an error.
func (s *Session) Shutdown(ctx context.Context) error {
	if !s.active.CompareAndSwap(true, false) {
		return nil
	}
	close(s.stopCh)
	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
