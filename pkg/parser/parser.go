// Package parser evaluates single expressions written in a grammar table's symbols.
package parser

import (
	"dialect/pkg/grammar"
	"dialect/pkg/runtime"
)

// Scope resolves variable references during evaluation.
type Scope interface {
	Get(name string) (runtime.Value, bool)
}

// Evaluate parses and evaluates text in one pass. Any error is a *runtime.Error
// attributed to line.
func Evaluate(text string, scope Scope, table *grammar.Table, line int) (runtime.Value, error) {
	p := &exprParser{
		src:   []rune(text),
		scope: scope,
		table: table,
	}
	value, err := p.parseExpression()
	if err == nil {
		if r, ok := p.peek(); ok {
			err = unexpectedCharacter(r)
		}
	}
	if err != nil {
		return nil, runtime.AtLine(err, line)
	}
	return value, nil
}

type exprParser struct {
	src   []rune
	pos   int
	scope Scope
	table *grammar.Table
}

// peek skips separators and returns the next rune without consuming it.
func (p *exprParser) peek() (rune, bool) {
	sep := p.table.Separator()
	for p.pos < len(p.src) && p.src[p.pos] == sep {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

// next consumes one rune, separators included.
func (p *exprParser) next() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	r := p.src[p.pos]
	p.pos++
	return r, true
}

func (p *exprParser) parseExpression() (runtime.Value, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		r, ok := p.peek()
		if !ok {
			return left, nil
		}
		var op runtime.Operator
		switch r {
		case p.table.Add():
			op = runtime.OpAdd
		case p.table.Subtract():
			op = runtime.OpSubtract
		default:
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if left, err = runtime.Apply(op, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *exprParser) parseTerm() (runtime.Value, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		r, ok := p.peek()
		if !ok {
			return left, nil
		}
		var op runtime.Operator
		switch r {
		case p.table.Multiply():
			op = runtime.OpMultiply
		case p.table.Divide():
			op = runtime.OpDivide
		default:
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if left, err = runtime.Apply(op, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *exprParser) parseFactor() (runtime.Value, error) {
	r, ok := p.peek()
	if !ok {
		return nil, runtime.Errorf(runtime.SyntaxError, "Unexpected end of expression")
	}
	switch {
	case r == p.table.QuoteOpen():
		p.pos++
		return p.parseString()
	case isDigit(r):
		return p.parseNumber()
	case p.table.StartsIdentifier(r):
		return p.parseVariable()
	case r == p.table.ParenOpen():
		p.pos++
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.peek(); !ok || closing != p.table.ParenClose() {
			return nil, runtime.Errorf(runtime.SyntaxError, "Can't parse ends '%s';", p.table.Lookup(grammar.KeyParens))
		}
		p.pos++
		return value, nil
	default:
		return nil, unexpectedCharacter(r)
	}
}

func unexpectedCharacter(r rune) *runtime.Error {
	return runtime.Errorf(runtime.SyntaxError, "Unexpected character: %c", r)
}
