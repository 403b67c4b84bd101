package grammar

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/blake3"
	"golang.org/x/exp/slices"
)

// Key identifies one entry of the grammar table.
type Key int

const (
	KeySeparator Key = iota
	KeyDecimalPoint
	KeyQuotes
	KeyParens
	KeyMultiply
	KeyDivide
	KeyAdd
	KeySubtract
	KeyComment
	KeyAssign
	KeyRead
	KeyPrint
	KeyIdentifier
	keyCount
)

type keySpec struct {
	canonical string
	alias     string
	check     func(value string) error
}

var keySpecs = [keyCount]keySpec{
	KeySeparator:    {canonical: " ", alias: "separator", check: singleChar},
	KeyDecimalPoint: {canonical: ".", alias: "decimal_point", check: singleChar},
	KeyQuotes:       {canonical: `""`, alias: "quotes", check: quotePair},
	KeyParens:       {canonical: "()", alias: "parens", check: charPair},
	KeyMultiply:     {canonical: "*", alias: "multiply", check: singleChar},
	KeyDivide:       {canonical: "/", alias: "divide", check: singleChar},
	KeyAdd:          {canonical: "+", alias: "add", check: singleChar},
	KeySubtract:     {canonical: "-", alias: "subtract", check: singleChar},
	KeyComment:      {canonical: "#", alias: "comment", check: nonEmpty},
	KeyAssign:       {canonical: "=", alias: "assign", check: nonEmpty},
	KeyRead:         {canonical: "read", alias: "read", check: nonEmpty},
	KeyPrint:        {canonical: "print", alias: "print", check: nonEmpty},
	KeyIdentifier:   {canonical: "var_name", alias: "identifier", check: validPattern},
}

// String returns the descriptive alias of the key.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("key_%d", int(k))
	}
	return keySpecs[k].alias
}

// Canonical returns the spelling used by the original JSON grammar files.
func (k Key) Canonical() string {
	if k < 0 || k >= keyCount {
		return ""
	}
	return keySpecs[k].canonical
}

// Keys lists every required key in table order.
func Keys() []Key {
	keys := make([]Key, 0, keyCount)
	for k := Key(0); k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// ParseKey resolves either spelling of a key.
func ParseKey(name string) (Key, bool) {
	for k := Key(0); k < keyCount; k++ {
		if keySpecs[k].canonical == name || keySpecs[k].alias == name {
			return k, true
		}
	}
	return 0, false
}

// ConfigurationError aggregates every problem found while validating a table.
type ConfigurationError struct {
	Issues []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Issues) == 0 {
		return "grammar: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("grammar validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Table is a fully validated grammar table. It is never mutated after New returns.
type Table struct {
	values [keyCount]string

	separator  rune
	decimal    rune
	quoteOpen  rune
	quoteClose rune
	parenOpen  rune
	parenClose rune
	operators  [4]rune

	identifier      *regexp.Regexp
	identifierStart *regexp.Regexp
}

// New validates entries (keyed by canonical spelling or alias) and builds a table.
func New(entries map[string]string) (*Table, error) {
	var errs ConfigurationError
	var values [keyCount]string
	var seen [keyCount]string

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		key, ok := ParseKey(name)
		if !ok {
			errs.Issues = append(errs.Issues, fmt.Sprintf("unknown key %q", name))
			continue
		}
		if seen[key] != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("key %s given twice (%q and %q)", key, seen[key], name))
			continue
		}
		seen[key] = name
		values[key] = entries[name]
	}

	for k := Key(0); k < keyCount; k++ {
		if seen[k] == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("missing key %s (%q)", k, keySpecs[k].canonical))
			continue
		}
		if err := keySpecs[k].check(values[k]); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: %v", k, err))
		}
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}

	t := &Table{values: values}
	t.separator = firstRune(values[KeySeparator])
	t.decimal = firstRune(values[KeyDecimalPoint])
	t.quoteOpen = firstRune(values[KeyQuotes])
	t.quoteClose = lastRune(values[KeyQuotes])
	t.parenOpen = firstRune(values[KeyParens])
	t.parenClose = lastRune(values[KeyParens])
	for i, k := range []Key{KeyMultiply, KeyDivide, KeyAdd, KeySubtract} {
		t.operators[i] = firstRune(values[k])
	}

	for i, op := range t.operators {
		if op == t.separator {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: operator %q equals the separator", KeyMultiply+Key(i), op))
		}
		for j := i + 1; j < len(t.operators); j++ {
			if op == t.operators[j] {
				errs.Issues = append(errs.Issues, fmt.Sprintf("%s and %s share the symbol %q", KeyMultiply+Key(i), KeyMultiply+Key(j), op))
			}
		}
	}
	errs.Issues = append(errs.Issues, t.symbolClashes()...)
	if len(errs.Issues) > 0 {
		return nil, &errs
	}

	pattern := values[KeyIdentifier]
	t.identifier = regexp.MustCompile(`^(?:` + pattern + `)$`)
	t.identifierStart = regexp.MustCompile(`^(?:` + pattern + `)`)
	return t, nil
}

type symbol struct {
	key Key
	r   rune
}

// symbolClashes checks the decimal point, quotes and parens against the separator, the
// operators and each other. A single quote character may open and close a string.
func (t *Table) symbolClashes() []string {
	structural := []symbol{
		{KeyDecimalPoint, t.decimal},
		{KeyQuotes, t.quoteOpen},
	}
	if t.quoteClose != t.quoteOpen {
		structural = append(structural, symbol{KeyQuotes, t.quoteClose})
	}
	structural = append(structural, symbol{KeyParens, t.parenOpen}, symbol{KeyParens, t.parenClose})

	var issues []string
	for i, a := range structural {
		if a.r == t.separator {
			issues = append(issues, fmt.Sprintf("%s: symbol %q equals the separator", a.key, a.r))
		}
		for j, op := range t.operators {
			if a.r == op {
				issues = append(issues, fmt.Sprintf("%s and %s share the symbol %q", a.key, KeyMultiply+Key(j), op))
			}
		}
		for _, b := range structural[i+1:] {
			if a.r != b.r {
				continue
			}
			if a.key == b.key {
				issues = append(issues, fmt.Sprintf("%s: open and close symbols must differ, got %q", a.key, a.r))
			} else {
				issues = append(issues, fmt.Sprintf("%s and %s share the symbol %q", a.key, b.key, a.r))
			}
		}
	}
	return issues
}

var defaultEntries = map[string]string{
	"separator":     " ",
	"decimal_point": ".",
	"quotes":        `""`,
	"parens":        "()",
	"multiply":      "*",
	"divide":        "/",
	"add":           "+",
	"subtract":      "-",
	"comment":       "#",
	"assign":        "=",
	"read":          "read",
	"print":         "print",
	"identifier":    `[A-Za-z_][A-Za-z0-9_]*`,
}

// DefaultEntries returns a copy of the stock table entries.
func DefaultEntries() map[string]string {
	out := make(map[string]string, len(defaultEntries))
	for k, v := range defaultEntries {
		out[k] = v
	}
	return out
}

// Default returns the stock grammar table.
func Default() *Table {
	t, err := New(defaultEntries)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Lookup(k Key) string {
	if k < 0 || k >= keyCount {
		return ""
	}
	return t.values[k]
}

func (t *Table) Separator() rune { return t.separator }

func (t *Table) DecimalPoint() rune { return t.decimal }

func (t *Table) QuoteOpen() rune { return t.quoteOpen }

func (t *Table) QuoteClose() rune { return t.quoteClose }

func (t *Table) ParenOpen() rune { return t.parenOpen }

func (t *Table) ParenClose() rune { return t.parenClose }

func (t *Table) Multiply() rune { return t.operators[0] }

func (t *Table) Divide() rune { return t.operators[1] }

func (t *Table) Add() rune { return t.operators[2] }

func (t *Table) Subtract() rune { return t.operators[3] }

func (t *Table) Comment() string { return t.values[KeyComment] }

func (t *Table) Assign() string { return t.values[KeyAssign] }

func (t *Table) ReadKeyword() string { return t.values[KeyRead] }

func (t *Table) PrintKeyword() string { return t.values[KeyPrint] }

// ValidIdentifier reports whether name fully matches the identifier pattern.
func (t *Table) ValidIdentifier(name string) bool {
	return t.identifier.MatchString(name)
}

// StartsIdentifier reports whether the pattern accepts a name beginning with r.
func (t *Table) StartsIdentifier(r rune) bool {
	return t.identifierStart.MatchString(string(r))
}

// TrimSeparators removes leading and trailing separator symbols.
func (t *Table) TrimSeparators(s string) string {
	return strings.Trim(s, string(t.separator))
}

// TrimTrailingSeparators removes trailing separator symbols only.
func (t *Table) TrimTrailingSeparators(s string) string {
	return strings.TrimRight(s, string(t.separator))
}

// Entries returns the table keyed by alias.
func (t *Table) Entries() map[string]string {
	out := make(map[string]string, keyCount)
	for k := Key(0); k < keyCount; k++ {
		out[k.String()] = t.values[k]
	}
	return out
}

// Fingerprint is a blake3 digest of the table contents. Two tables that differ only in
// which key spellings were used share a fingerprint.
func (t *Table) Fingerprint() string {
	h := blake3.New()
	for k := Key(0); k < keyCount; k++ {
		fmt.Fprintf(h, "%s=%q\n", k, t.values[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func singleChar(value string) error {
	if utf8.RuneCountInString(value) != 1 {
		return fmt.Errorf("expected a single character, got %q", value)
	}
	return nil
}

func charPair(value string) error {
	if utf8.RuneCountInString(value) != 2 {
		return fmt.Errorf("expected an open/close character pair, got %q", value)
	}
	return nil
}

func quotePair(value string) error {
	n := utf8.RuneCountInString(value)
	if n != 1 && n != 2 {
		return fmt.Errorf("expected one quote character or an open/close pair, got %q", value)
	}
	return nil
}

func nonEmpty(value string) error {
	if value == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

func validPattern(value string) error {
	if value == "" {
		return fmt.Errorf("must not be empty")
	}
	if _, err := regexp.Compile(`^(?:` + value + `)$`); err != nil {
		return fmt.Errorf("invalid pattern %q: %v", value, err)
	}
	return nil
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
