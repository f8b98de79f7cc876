package telemetry

import (
	"fmt"
	"io"
)

// writeRecord serializes rec to w in the fixed line-oriented trace
// format: a 10-wide hex thread id, then a kind-specific body. Cycle
// fields are epoch-relative except for the epoch record itself.
func writeRecord(w io.Writer, rec Record, epoch uint64) {
	fmt.Fprintf(w, "%10x ", uint64(rec.ThreadID))
	switch rec.Kind {
	case KindCalibration:
		fmt.Fprintf(w, "Calibration: %f ticks per second\n", rec.TicksPerSecond)
	case KindEpoch:
		fmt.Fprintf(w, "Epoch counter: %d\n", rec.Cycle)
	case KindTimestamp:
		fmt.Fprintf(w, "%15d -|-  \"%s\"\n", rec.Cycle-epoch, rec.Desc)
	case KindIntervalStart:
		fmt.Fprintf(w, "%15d (-   \"%s\" (%d)\n", rec.Cycle-epoch, rec.Desc, rec.IntervalID)
	case KindIntervalEnd:
		fmt.Fprintf(w, "%15d  -)  \"%s\" (%d)\n", rec.Cycle-epoch, rec.Desc, rec.IntervalID)
	case KindIntervalAnnotation:
		fmt.Fprintf(w, "%15s ???  \"%s\" (%d)\n", " ", rec.Desc, rec.IntervalID)
	case KindDynamicAnnotation:
		fmt.Fprintf(w, "%15s ???  \"%s\" (%d)\n", " ", rec.Dynamic, rec.IntervalID)
	}
}
