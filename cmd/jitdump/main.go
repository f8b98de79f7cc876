// cmd/jitdump is a small inspector over the expression tree IR and the
// telemetry ring: it builds a demonstration tree and traverses it, or
// runs a short telemetry session and dumps the resulting trace.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

var commandAliases = map[string]string{
	"b": "build",
	"t": "trace",
	"v": "version",
	"h": "help",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "help", "--help", "-h":
		showUsage()
	case "version", "--version":
		fmt.Printf("jitdump %s\n", version)
	case "build":
		if err := buildCommand(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "jitdump build: %v\n", err)
			os.Exit(1)
		}
	case "trace":
		if err := traceCommand(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "jitdump trace: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Print(`jitdump - expression tree IR and telemetry inspector

Usage:
  jitdump build                                       build and print a demonstration expression tree
  jitdump trace [-n count] [-producers n] [-ring n]   run a telemetry session and print its trace
  jitdump version                                     print the version
  jitdump help                                        show this message
`)
}
