package parser

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"dialect/pkg/grammar"
	"dialect/pkg/runtime"
)

const escapeRune = '\\'

// parseString reads the body of a string literal; the opening quote is already consumed.
func (p *exprParser) parseString() (runtime.Value, error) {
	var b strings.Builder
	escaped := false
	for {
		r, ok := p.next()
		if !ok {
			return nil, runtime.Errorf(runtime.SyntaxError, "Can't parse ends '%s';", p.table.Lookup(grammar.KeyQuotes))
		}
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == escapeRune {
			escaped = true
			continue
		}
		if r == p.table.QuoteClose() {
			return runtime.StringValue{Val: b.String()}, nil
		}
		b.WriteRune(r)
	}
}

// parseNumber consumes a maximal run of ASCII digits and decimal-point symbols.
func (p *exprParser) parseNumber() (runtime.Value, error) {
	decimal := p.table.DecimalPoint()
	start := p.pos
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == decimal) {
		p.pos++
	}
	text := string(p.src[start:p.pos])
	if strings.ContainsRune(text, decimal) {
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, string(decimal), "."), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, runtime.Errorf(runtime.SyntaxError, "error while type casting: \"%s\" to float", text)
		}
		return runtime.FloatValue{Val: f}, nil
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, runtime.Errorf(runtime.SyntaxError, "error while type casting: \"%s\" to int", text)
	}
	return runtime.IntegerValue{Val: n}, nil
}

// parseVariable reads a name up to the next separator and resolves it.
func (p *exprParser) parseVariable() (runtime.Value, error) {
	sep := p.table.Separator()
	start := p.pos
	p.pos++
	for p.pos < len(p.src) && p.src[p.pos] != sep {
		p.pos++
	}
	name := string(p.src[start:p.pos])
	if !p.table.ValidIdentifier(name) {
		return nil, runtime.Errorf(runtime.SyntaxError, "Invalid var name \"%s\"", name)
	}
	value, ok := p.scope.Get(name)
	if !ok {
		return nil, runtime.Errorf(runtime.NameError, "Unknown variable \"%s\"", name)
	}
	return value, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
