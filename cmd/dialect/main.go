package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "dialect-cli 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitUsage
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		printError("%v", err)
		return exitUsage
	}
	if len(remaining) == 0 {
		printUsage()
		return exitUsage
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(remaining[1:], opts)
	case "check":
		return runCheck(remaining[1:], opts)
	case "grammar":
		return runGrammar(remaining[1:], opts)
	case "test":
		return runTest(remaining[1:], opts)
	case "deps":
		return runDeps(remaining[1:])
	default:
		return runEntry(remaining, opts)
	}
}
