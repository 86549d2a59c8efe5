// Command timetable is the batch-mode entry point for the scheduling
// core (spec §6): generate one faculty's timetable, generate every
// faculty in a term sequentially, or verify an already-produced
// timetable against the hard constraint suite.
//
// It deliberately has no HTTP server or interactive shell — every
// subcommand reads its inputs from disk, runs one or more
// internal/generator.Service.Generate calls, and writes its outputs back
// to disk, exiting with the status codes spec §6/§7 define.
package main

import (
	"fmt"
	"os"

	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return appErrors.ExitBadInput
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "generate":
		return runGenerate(rest)
	case "generate-all":
		return runGenerateAll(rest)
	case "verify":
		return runVerify(rest)
	case "-h", "--help", "help":
		printUsage()
		return appErrors.ExitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", sub)
		printUsage()
		return appErrors.ExitBadInput
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: timetable <subcommand> [flags]

subcommands:
  generate      --term {1|2} --faculty <name> --input <dir> --output <dir>
  generate-all  --term {1|2} --input <dir> --output <dir>
  verify        --timetable <file> --resources <file>`)
}
