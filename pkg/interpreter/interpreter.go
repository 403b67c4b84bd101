// Package interpreter executes line-oriented programs against a grammar table.
package interpreter

import (
	"errors"
	"fmt"
	"io"

	"dialect/pkg/grammar"
	"dialect/pkg/parser"
	"dialect/pkg/runtime"
)

// Options configures the collaborators of a run.
type Options struct {
	Input  Input
	Output io.Writer
	// Trace, when set, receives one line per executed statement.
	Trace io.Writer
}

// Interpreter runs programs written in a single grammar. Each Run starts from an
// empty environment.
type Interpreter struct {
	table  *grammar.Table
	input  Input
	output io.Writer
	trace  io.Writer
	env    *runtime.Environment
}

// New creates an interpreter. A nil Input behaves as an exhausted stream and a nil
// Output discards printed values.
func New(table *grammar.Table, opts Options) *Interpreter {
	if table == nil {
		table = grammar.Default()
	}
	input := opts.Input
	if input == nil {
		input = NewQueuedInput()
	}
	output := opts.Output
	if output == nil {
		output = io.Discard
	}
	return &Interpreter{
		table:  table,
		input:  input,
		output: output,
		trace:  opts.Trace,
		env:    runtime.NewEnvironment(),
	}
}

// Environment exposes the bindings of the most recent run.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}

// Run executes source line by line. The first failing statement stops the run and its
// error, a *runtime.Error carrying the 1-based line number, is returned.
func (i *Interpreter) Run(source string) error {
	i.env = runtime.NewEnvironment()
	for idx, raw := range SplitLines(source) {
		lineNo := idx + 1
		stmt := Classify(raw, i.table)
		if stmt.Kind == StatementBlank {
			continue
		}
		i.traceStatement(lineNo, stmt)
		if err := i.execute(stmt, lineNo); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execute(stmt Statement, lineNo int) error {
	switch stmt.Kind {
	case StatementRead:
		if !i.table.ValidIdentifier(stmt.Name) {
			return invalidName(stmt.Name, lineNo)
		}
		raw, err := i.input.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return &runtime.Error{Kind: runtime.InputError, Line: lineNo, Message: "Unexpected end of input"}
			}
			return &runtime.Error{Kind: runtime.InputError, Line: lineNo, Message: err.Error()}
		}
		value, err := CoerceInput(i.table.TrimSeparators(raw), i.table)
		if err != nil {
			return runtime.AtLine(err, lineNo)
		}
		i.env.Set(stmt.Name, value)
	case StatementPrint:
		value, err := parser.Evaluate(stmt.Expr, i.env, i.table, lineNo)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(i.output, runtime.Format(value)+"\n"); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	case StatementAssign:
		if !i.table.ValidIdentifier(stmt.Name) {
			return invalidName(stmt.Name, lineNo)
		}
		value, err := parser.Evaluate(stmt.Expr, i.env, i.table, lineNo)
		if err != nil {
			return err
		}
		i.env.Set(stmt.Name, value)
	default:
		return unknownOperation(stmt, lineNo)
	}
	return nil
}

func (i *Interpreter) traceStatement(lineNo int, stmt Statement) {
	if i.trace == nil {
		return
	}
	switch stmt.Kind {
	case StatementRead:
		fmt.Fprintf(i.trace, "trace: %d: read %s\n", lineNo, stmt.Name)
	case StatementPrint:
		fmt.Fprintf(i.trace, "trace: %d: print %s\n", lineNo, stmt.Expr)
	case StatementAssign:
		fmt.Fprintf(i.trace, "trace: %d: assign %s = %s\n", lineNo, stmt.Name, stmt.Expr)
	default:
		fmt.Fprintf(i.trace, "trace: %d: %s %s\n", lineNo, stmt.Kind, stmt.Text)
	}
}

// Check classifies every line of source and validates target names without evaluating
// anything. It returns the first problem found.
func Check(source string, table *grammar.Table) error {
	for idx, raw := range SplitLines(source) {
		lineNo := idx + 1
		stmt := Classify(raw, table)
		switch stmt.Kind {
		case StatementBlank, StatementPrint:
		case StatementRead, StatementAssign:
			if !table.ValidIdentifier(stmt.Name) {
				return invalidName(stmt.Name, lineNo)
			}
		default:
			return unknownOperation(stmt, lineNo)
		}
	}
	return nil
}

func invalidName(name string, lineNo int) *runtime.Error {
	return &runtime.Error{Kind: runtime.SyntaxError, Line: lineNo, Message: "invalid variable name: " + name}
}

func unknownOperation(stmt Statement, lineNo int) *runtime.Error {
	return &runtime.Error{Kind: runtime.SyntaxError, Line: lineNo, Message: fmt.Sprintf("Unknown operation in %s;", stmt.Text)}
}
