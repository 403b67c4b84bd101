package interpreter

import (
	"errors"
	"fmt"
	"io"

	"dialect/pkg/grammar"
	"dialect/pkg/runtime"
)

const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

// Reporter turns the outcome of a run into a diagnostic line and an exit status.
type Reporter struct {
	Out io.Writer
}

// Report writes exactly one line for a failed run and returns the exit status.
// Run errors are written as <line>:<message>.
func (r Reporter) Report(err error) int {
	if err == nil {
		return ExitOK
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	var cfgErr *grammar.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(out, cfgErr.Error())
		return ExitConfig
	}
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		fmt.Fprintf(out, "%d:%s\n", rtErr.Line, rtErr.Message)
		if rtErr.Kind == runtime.ConfigurationError {
			return ExitConfig
		}
		return ExitFailed
	}
	fmt.Fprintln(out, err.Error())
	return ExitFailed
}
