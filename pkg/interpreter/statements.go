package interpreter

import (
	"strings"

	"dialect/pkg/grammar"
)

// StatementKind enumerates the line forms of a program.
type StatementKind int

const (
	StatementBlank StatementKind = iota
	StatementRead
	StatementPrint
	StatementAssign
	StatementUnknown
)

func (k StatementKind) String() string {
	switch k {
	case StatementBlank:
		return "blank"
	case StatementRead:
		return "read"
	case StatementPrint:
		return "print"
	case StatementAssign:
		return "assign"
	default:
		return "unknown"
	}
}

// Statement is one classified source line. Text is the line after comment removal and
// trimming; Name and Expr are set for the forms that carry them.
type Statement struct {
	Kind StatementKind
	Text string
	Name string
	Expr string
}

// Classify strips comments and trailing separators from a raw line and decides which
// statement form it is. Comment removal is not aware of string literals.
func Classify(line string, table *grammar.Table) Statement {
	line = strings.TrimSuffix(line, "\r")
	line = table.TrimTrailingSeparators(line)
	comment := table.Comment()
	if line == "" || strings.HasPrefix(line, comment) {
		return Statement{Kind: StatementBlank}
	}
	if idx := strings.Index(line, comment); idx >= 0 {
		line = table.TrimTrailingSeparators(line[:idx])
		if line == "" {
			return Statement{Kind: StatementBlank}
		}
	}

	sep := string(table.Separator())
	if rest, ok := strings.CutPrefix(line, table.ReadKeyword()+sep); ok {
		return Statement{Kind: StatementRead, Text: line, Name: table.TrimSeparators(rest)}
	}
	if rest, ok := strings.CutPrefix(line, table.PrintKeyword()+sep); ok {
		return Statement{Kind: StatementPrint, Text: line, Expr: table.TrimSeparators(rest)}
	}
	if name, expr, ok := strings.Cut(line, table.Assign()); ok {
		return Statement{
			Kind: StatementAssign,
			Text: line,
			Name: table.TrimSeparators(name),
			Expr: table.TrimSeparators(expr),
		}
	}
	return Statement{Kind: StatementUnknown, Text: line}
}

// SplitLines splits source on newlines; a trailing carriage return on each line is dropped.
func SplitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
