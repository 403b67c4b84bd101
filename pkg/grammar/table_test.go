package grammar

import (
	"errors"
	"strings"
	"testing"
)

func originalEntries() map[string]string {
	return map[string]string{
		" ":        " ",
		".":        ".",
		`""`:       `""`,
		"()":       "()",
		"*":        "*",
		"/":        "/",
		"+":        "+",
		"-":        "-",
		"#":        "#",
		"=":        "=",
		"read":     "read",
		"print":    "print",
		"var_name": `^[a-zA-Z_][a-zA-Z0-9_]*$`,
	}
}

func TestNewAcceptsCanonicalKeys(t *testing.T) {
	table, err := New(originalEntries())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := table.Separator(); got != ' ' {
		t.Fatalf("Separator = %q, want ' '", got)
	}
	if got := table.ParenClose(); got != ')' {
		t.Fatalf("ParenClose = %q, want ')'", got)
	}
	if got := table.QuoteOpen(); got != '"' || table.QuoteClose() != '"' {
		t.Fatalf("quotes = %q/%q, want identical '\"'", got, table.QuoteClose())
	}
	if !table.ValidIdentifier("total_2") {
		t.Fatalf("expected total_2 to be a valid identifier")
	}
	if table.ValidIdentifier("2total") {
		t.Fatalf("expected 2total to be rejected")
	}
}

func TestNewAcceptsAliases(t *testing.T) {
	table, err := New(DefaultEntries())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if table.PrintKeyword() != "print" || table.ReadKeyword() != "read" {
		t.Fatalf("keywords = %q/%q", table.PrintKeyword(), table.ReadKeyword())
	}
	if table.Lookup(KeyIdentifier) != `[A-Za-z_][A-Za-z0-9_]*` {
		t.Fatalf("identifier pattern = %q", table.Lookup(KeyIdentifier))
	}
}

func TestNewReportsEveryMissingKey(t *testing.T) {
	entries := DefaultEntries()
	delete(entries, "print")
	delete(entries, "parens")

	_, err := New(entries)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(cfgErr.Issues) != 2 {
		t.Fatalf("issues = %#v, want 2 entries", cfgErr.Issues)
	}
	joined := strings.Join(cfgErr.Issues, "\n")
	if !strings.Contains(joined, "missing key parens") || !strings.Contains(joined, "missing key print") {
		t.Fatalf("unexpected issues: %s", joined)
	}
}

func TestNewRejectsMalformedValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
		issue string
	}{
		{name: "wide separator", key: "separator", value: "  ", issue: "separator: expected a single character"},
		{name: "single paren", key: "parens", value: "(", issue: "parens: expected an open/close character pair"},
		{name: "three quotes", key: "quotes", value: `"'"`, issue: "quotes: expected one quote character"},
		{name: "empty assign", key: "assign", value: "", issue: "assign: must not be empty"},
		{name: "bad pattern", key: "identifier", value: "[a-z", issue: "identifier: invalid pattern"},
		{name: "operator clash", key: "add", value: "*", issue: "multiply and add share the symbol"},
		{name: "operator is separator", key: "subtract", value: " ", issue: "subtract: operator ' ' equals the separator"},
		{name: "decimal point is separator", key: "decimal_point", value: " ", issue: "decimal_point: symbol ' ' equals the separator"},
		{name: "decimal point is operator", key: "decimal_point", value: "-", issue: "decimal_point and subtract share the symbol '-'"},
		{name: "quote is operator", key: "quotes", value: "*", issue: "quotes and multiply share the symbol '*'"},
		{name: "closing quote is separator", key: "quotes", value: "< ", issue: "quotes: symbol ' ' equals the separator"},
		{name: "paren is operator", key: "parens", value: "(+", issue: "parens and add share the symbol '+'"},
		{name: "identical parens", key: "parens", value: "||", issue: "parens: open and close symbols must differ"},
		{name: "paren is quote", key: "parens", value: `"|`, issue: `quotes and parens share the symbol '"'`},
		{name: "paren is decimal point", key: "parens", value: ".)", issue: "decimal_point and parens share the symbol '.'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries := DefaultEntries()
			entries[tc.key] = tc.value
			_, err := New(entries)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.issue) {
				t.Fatalf("error = %q, want it to mention %q", err.Error(), tc.issue)
			}
		})
	}
}

func TestNewRejectsUnknownAndDuplicateKeys(t *testing.T) {
	entries := DefaultEntries()
	entries["while"] = "while"
	entries["="] = ":"

	_, err := New(entries)
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, `unknown key "while"`) {
		t.Fatalf("missing unknown key issue: %s", msg)
	}
	if !strings.Contains(msg, "key assign given twice") {
		t.Fatalf("missing duplicate key issue: %s", msg)
	}
}

func TestStartsIdentifierUsesPrefixMatch(t *testing.T) {
	table := Default()
	if !table.StartsIdentifier('x') {
		t.Fatalf("expected x to start an identifier")
	}
	if table.StartsIdentifier('7') {
		t.Fatalf("expected 7 not to start an identifier")
	}
	if table.StartsIdentifier('+') {
		t.Fatalf("expected + not to start an identifier")
	}
}

func TestTrimHelpersOnlyStripSeparator(t *testing.T) {
	entries := DefaultEntries()
	entries["separator"] = "_"
	entries["identifier"] = `[a-z]+`
	table, err := New(entries)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := table.TrimTrailingSeparators("__x _ __"); got != "__x _ " {
		t.Fatalf("TrimTrailingSeparators = %q", got)
	}
	if got := table.TrimSeparators("__x__"); got != "x" {
		t.Fatalf("TrimSeparators = %q", got)
	}
}

func TestFingerprintIgnoresKeySpelling(t *testing.T) {
	canonical := originalEntries()
	canonical["var_name"] = `[A-Za-z_][A-Za-z0-9_]*`
	a, err := New(canonical)
	if err != nil {
		t.Fatalf("New canonical: %v", err)
	}
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ: %s vs %s", a.Fingerprint(), b.Fingerprint())
	}

	entries := DefaultEntries()
	entries["comment"] = ";"
	c, err := New(entries)
	if err != nil {
		t.Fatalf("New modified: %v", err)
	}
	if c.Fingerprint() == b.Fingerprint() {
		t.Fatalf("expected different fingerprint after changing the comment marker")
	}
	if len(b.Fingerprint()) != 64 {
		t.Fatalf("fingerprint length = %d, want 64", len(b.Fingerprint()))
	}
}
