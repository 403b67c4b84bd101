package main

import (
	"fmt"
	"strings"
)

const exitUsage = 2

type globalOptions struct {
	grammarPath string
	trace       bool
}

// parseGlobalFlags pulls --grammar and --trace out of args wherever they appear. Anything
// after "--" is passed through untouched.
func parseGlobalFlags(args []string) (globalOptions, []string, error) {
	var opts globalOptions
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		switch {
		case arg == "--grammar" || arg == "-g":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("%s expects a value", arg)
			}
			opts.grammarPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--grammar="):
			value := strings.TrimPrefix(arg, "--grammar=")
			if strings.TrimSpace(value) == "" {
				return opts, nil, fmt.Errorf("--grammar expects a value")
			}
			opts.grammarPath = value
		case arg == "--trace":
			opts.trace = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return opts, remaining, nil
}
