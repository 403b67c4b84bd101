package runtime

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val *big.Int
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// NewInteger wraps an int64 as an IntegerValue.
func NewInteger(n int64) IntegerValue {
	return IntegerValue{Val: big.NewInt(n)}
}

// Format renders a value the way print writes it.
func Format(v Value) string {
	switch val := v.(type) {
	case IntegerValue:
		if val.Val == nil {
			return "0"
		}
		return val.Val.String()
	case FloatValue:
		return FormatFloat(val.Val)
	case StringValue:
		return val.Val
	case nil:
		return ""
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

// FormatFloat produces the shortest representation that round-trips, using fixed
// notation for decimal exponents in [-4, 16) and always showing a fractional part there.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mark := strings.LastIndexByte(sci, 'e')
	exp, err := strconv.Atoi(sci[mark+1:])
	if err != nil {
		return sci
	}
	if exp < -4 || exp >= 16 {
		mantissa, suffix := sci[:mark], sci[mark+1:]
		sign := suffix[0]
		digits := strings.TrimLeft(suffix[1:], "0")
		if len(digits) < 2 {
			digits = strings.Repeat("0", 2-len(digits)) + digits
		}
		return mantissa + "e" + string(sign) + digits
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}
