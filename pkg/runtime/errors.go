package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed run.
type ErrorKind string

const (
	ConfigurationError ErrorKind = "ConfigurationError"
	SyntaxError        ErrorKind = "SyntaxError"
	NameError          ErrorKind = "NameError"
	TypeError          ErrorKind = "TypeError"
	ArithmeticError    ErrorKind = "ArithmeticError"
	InputError         ErrorKind = "InputError"
)

// Error is a fatal run error. Line is 1-based; zero means the error has not been
// attributed to a source line yet.
type Error struct {
	Kind    ErrorKind
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%s", e.Line, e.Message)
}

// Errorf builds an unattributed error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AtLine returns a copy of err attributed to line. Errors that are not *Error are
// reported as syntax errors.
func AtLine(err error, line int) *Error {
	if err == nil {
		return nil
	}
	var rtErr *Error
	if errors.As(err, &rtErr) {
		out := *rtErr
		out.Line = line
		return &out
	}
	return &Error{Kind: SyntaxError, Line: line, Message: err.Error()}
}

// IsKind reports whether err is a runtime error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var rtErr *Error
	return errors.As(err, &rtErr) && rtErr.Kind == kind
}
