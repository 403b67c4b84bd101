package interpreter

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"dialect/pkg/grammar"
	"dialect/pkg/runtime"
)

// CoerceInput converts a line obtained by read. Two numeric runs joined by the decimal
// point become a Float, a single numeric run becomes an Integer, anything else stays
// a String.
func CoerceInput(text string, table *grammar.Table) (runtime.Value, error) {
	decimal := string(table.DecimalPoint())
	if parts := strings.Split(text, decimal); len(parts) == 2 && isNumeric(parts[0]) && isNumeric(parts[1]) {
		normalized := parts[0] + "." + parts[1]
		whole, okWhole := decimalDigits(parts[0])
		frac, okFrac := decimalDigits(parts[1])
		if !okWhole || !okFrac {
			return nil, runtime.Errorf(runtime.ArithmeticError, "error while type casting: \"%s\" to float", normalized)
		}
		f, err := strconv.ParseFloat(whole+"."+frac, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, runtime.Errorf(runtime.ArithmeticError, "error while type casting: \"%s\" to float", normalized)
		}
		return runtime.FloatValue{Val: f}, nil
	}
	if isNumeric(text) {
		digits, ok := decimalDigits(text)
		if !ok {
			return nil, runtime.Errorf(runtime.ArithmeticError, "error while type casting: \"%s\" to int", text)
		}
		n, _ := new(big.Int).SetString(digits, 10)
		return runtime.IntegerValue{Val: n}, nil
	}
	return runtime.StringValue{Val: text}, nil
}

// isNumeric reports whether s is non-empty and made only of numeric characters
// (decimal digits, fractions, superscripts, numerals of other scripts).
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// decimalDigits maps every decimal digit of s, in any script, to ASCII. Numeric
// characters without a digit value (such as ½) make it fail.
func decimalDigits(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok {
			return "", false
		}
		b.WriteByte(byte('0' + d))
	}
	return b.String(), true
}

// digitValue relies on Unicode encoding every decimal digit set as a contiguous run
// starting at zero.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	n := 0
	for unicode.IsDigit(r - rune(n+1)) {
		n++
	}
	return n % 10, true
}
