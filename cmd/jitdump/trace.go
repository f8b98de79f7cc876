package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"jitir/internal/telemetry"
)

// traceCommand runs a short telemetry session fed by a small number of
// concurrent producer goroutines, then prints the serialized trace. When
// stdout is a terminal it also prints a humanized summary banner tagged
// with a random run id — never mixed into the wire-format trace lines
// themselves.
func traceCommand(args []string) error {
	count := 50
	producers := 4
	ringSize := telemetry.DefaultRingSize

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			n, err := nextIntArg(args, &i)
			if err != nil {
				return err
			}
			count = n
		case "-producers":
			n, err := nextIntArg(args, &i)
			if err != nil {
				return err
			}
			producers = n
		case "-ring":
			n, err := nextIntArg(args, &i)
			if err != nil {
				return err
			}
			ringSize = n
		default:
			return fmt.Errorf("unknown trace option %q", args[i])
		}
	}

	runID := uuid.New()

	var out bytes.Buffer
	session := telemetry.NewSession(ringSize, &out).
		WithIntervals(50*time.Millisecond, 20*time.Millisecond)
	session.Start()

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		p := p
		g.Go(func() error {
			for i := 0; i < count; i++ {
				id := session.IntervalStart(int64(p), "work")
				session.IntervalAnnotate(int64(p), id, "synthetic")
				session.IntervalStop(int64(p), id, "work")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	time.Sleep(100 * time.Millisecond) // let the drain loop catch up
	if err := session.Shutdown(context.Background()); err != nil {
		return err
	}

	os.Stdout.Write(out.Bytes())

	if isatty.IsTerminal(os.Stdout.Fd()) {
		ringBytes := uint64(ringSize) * 64 // approximate per-record footprint
		fmt.Printf("\n-- run %s --\n", runID)
		fmt.Printf("ring capacity: %s (%d records)\n", humanize.Bytes(ringBytes), ringSize)
		fmt.Printf("intervals recorded: %s\n", humanize.Comma(int64(producers*count)))
	}
	return nil
}

// nextIntArg consumes the argument following args[*i] as the value for
// the flag at args[*i], advancing i past it.
func nextIntArg(args []string, i *int) (int, error) {
	*i++
	if *i >= len(args) {
		return 0, fmt.Errorf("%s requires a value", args[*i-1])
	}
	n, err := strconv.Atoi(args[*i])
	if err != nil {
		return 0, fmt.Errorf("%s: %v", args[*i-1], err)
	}
	return n, nil
}
