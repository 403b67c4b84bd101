package interpreter

import (
	"errors"
	"io"
	"strings"
	"testing"

	"dialect/pkg/grammar"
	"dialect/pkg/runtime"
)

func TestClassify(t *testing.T) {
	table := grammar.Default()
	cases := []struct {
		line string
		want Statement
	}{
		{line: "", want: Statement{Kind: StatementBlank}},
		{line: "   ", want: Statement{Kind: StatementBlank}},
		{line: "# note", want: Statement{Kind: StatementBlank}},
		{line: "read  x  ", want: Statement{Kind: StatementRead, Text: "read  x", Name: "x"}},
		{line: "print 1 + 2 # sum", want: Statement{Kind: StatementPrint, Text: "print 1 + 2", Expr: "1 + 2"}},
		{line: "x = y = 2", want: Statement{Kind: StatementAssign, Text: "x = y = 2", Name: "x", Expr: "y = 2"}},
		{line: "readme = 1", want: Statement{Kind: StatementAssign, Text: "readme = 1", Name: "readme", Expr: "1"}},
		{line: "println", want: Statement{Kind: StatementUnknown, Text: "println"}},
		{line: "x = 1\r", want: Statement{Kind: StatementAssign, Text: "x = 1", Name: "x", Expr: "1"}},
	}
	for _, tc := range cases {
		if got := Classify(tc.line, table); got != tc.want {
			t.Fatalf("Classify(%q) = %#v, want %#v", tc.line, got, tc.want)
		}
	}
}

func TestClassifyMultiCharacterSymbols(t *testing.T) {
	entries := grammar.DefaultEntries()
	entries["comment"] = "//"
	entries["assign"] = ":="
	entries["divide"] = "÷"
	table, err := grammar.New(entries)
	if err != nil {
		t.Fatalf("grammar.New: %v", err)
	}
	got := Classify("x := 1 // one", table)
	want := Statement{Kind: StatementAssign, Text: "x := 1", Name: "x", Expr: "1"}
	if got != want {
		t.Fatalf("Classify = %#v, want %#v", got, want)
	}
	if got := Classify("// only a comment", table); got.Kind != StatementBlank {
		t.Fatalf("comment line kind = %s", got.Kind)
	}
}

// An indented comment leaves nothing but separators once the comment is cut off. Such a
// line is skipped rather than reported as "Unknown operation in ;".
func TestClassifyLineEmptyAfterCommentTruncationIsBlank(t *testing.T) {
	table := grammar.Default()
	for _, line := range []string{"  # note", "   #", "     # trailing words"} {
		if got := Classify(line, table); got.Kind != StatementBlank {
			t.Fatalf("Classify(%q) = %#v, want a blank statement", line, got)
		}
	}
	if got := Classify("\t# note", table); got.Kind != StatementUnknown || got.Text != "\t" {
		t.Fatalf("tab is not the separator; Classify = %#v", got)
	}

	var out strings.Builder
	interp := New(table, Options{Output: &out})
	if err := interp.Run("print 1\n  # note\nprint 2"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "1\n2\n" {
		t.Fatalf("output = %q", out.String())
	}
	if err := Check("  # note\nprint 1", table); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckReportsFirstProblem(t *testing.T) {
	table := grammar.Default()
	if err := Check("read a\nprint a + undefined\nb = a", table); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	err := Check("read a\n1x = 2\nwhat", table)
	if err == nil || err.Error() != "2:invalid variable name: 1x" {
		t.Fatalf("Check error = %v", err)
	}
	err = Check("a = 1\nwhat now", table)
	if !runtime.IsKind(err, runtime.SyntaxError) || err.Error() != "2:Unknown operation in what now;" {
		t.Fatalf("Check error = %v", err)
	}
}

func TestQueuedInput(t *testing.T) {
	in := NewQueuedInput("a", "b", "c")
	if in.Remaining() != 3 {
		t.Fatalf("Remaining = %d, want 3", in.Remaining())
	}
	for _, want := range []string{"a", "b", "c"} {
		got, err := in.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Fatalf("ReadLine = %q, want %q", got, want)
		}
	}
	if _, err := in.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReaderInput(t *testing.T) {
	in := NewReaderInput(strings.NewReader("first\r\nsecond\nlast"))
	for _, want := range []string{"first", "second", "last"} {
		got, err := in.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Fatalf("ReadLine = %q, want %q", got, want)
		}
	}
	if _, err := in.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestCoerceInput(t *testing.T) {
	table := grammar.Default()
	cases := []struct {
		in   string
		kind runtime.Kind
		want string
	}{
		{in: "12", kind: runtime.KindInteger, want: "12"},
		{in: "007", kind: runtime.KindInteger, want: "7"},
		{in: "1.5", kind: runtime.KindFloat, want: "1.5"},
		{in: "٣", kind: runtime.KindInteger, want: "3"},
		{in: "-3", kind: runtime.KindString, want: "-3"},
		{in: ".5", kind: runtime.KindString, want: ".5"},
		{in: "1.", kind: runtime.KindString, want: "1."},
		{in: "", kind: runtime.KindString, want: ""},
		{in: "abc", kind: runtime.KindString, want: "abc"},
	}
	for _, tc := range cases {
		got, err := CoerceInput(tc.in, table)
		if err != nil {
			t.Fatalf("CoerceInput(%q) returned error: %v", tc.in, err)
		}
		if got.Kind() != tc.kind || runtime.Format(got) != tc.want {
			t.Fatalf("CoerceInput(%q) = %s %q, want %s %q", tc.in, got.Kind(), runtime.Format(got), tc.kind, tc.want)
		}
	}

	_, err := CoerceInput("½", table)
	if !runtime.IsKind(err, runtime.ArithmeticError) {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
	if err.(*runtime.Error).Message != `error while type casting: "½" to int` {
		t.Fatalf("message = %q", err.(*runtime.Error).Message)
	}
}

func TestReporter(t *testing.T) {
	var out strings.Builder
	r := Reporter{Out: &out}
	if code := r.Report(nil); code != ExitOK {
		t.Fatalf("Report(nil) = %d", code)
	}
	code := r.Report(&runtime.Error{Kind: runtime.NameError, Line: 4, Message: `Unknown variable "y"`})
	if code != ExitFailed {
		t.Fatalf("exit = %d, want %d", code, ExitFailed)
	}
	if out.String() != "4:Unknown variable \"y\"\n" {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	_, err := grammar.New(map[string]string{})
	if code := r.Report(err); code != ExitConfig {
		t.Fatalf("configuration exit = %d, want %d", code, ExitConfig)
	}
	if !strings.HasPrefix(out.String(), "grammar validation failed:") {
		t.Fatalf("output = %q", out.String())
	}
}
