package runtime

import (
	"fmt"
	"math"
	"math/big"
)

// Operator is one of the four arithmetic operators of the language.
type Operator int

const (
	OpMultiply Operator = iota
	OpDivide
	OpAdd
	OpSubtract
)

func (op Operator) String() string {
	switch op {
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("operator_%d", int(op))
	}
}

func (op Operator) verb() string {
	switch op {
	case OpMultiply:
		return "multiplying"
	case OpDivide:
		return "dividing"
	case OpAdd:
		return "adding"
	default:
		return "subtracting"
	}
}

// Apply combines two values. Integer pairs stay integral except under division, any
// Float operand promotes the result to Float, and String pairs only support addition.
func Apply(op Operator, left, right Value) (Value, error) {
	switch l := left.(type) {
	case IntegerValue:
		switch r := right.(type) {
		case IntegerValue:
			return applyIntegers(op, l, r)
		case FloatValue:
			lf, err := integerToFloat(l)
			if err != nil {
				return nil, err
			}
			return applyFloats(op, lf, r.Val, left, right)
		}
	case FloatValue:
		switch r := right.(type) {
		case IntegerValue:
			rf, err := integerToFloat(r)
			if err != nil {
				return nil, err
			}
			return applyFloats(op, l.Val, rf, left, right)
		case FloatValue:
			return applyFloats(op, l.Val, r.Val, left, right)
		}
	case StringValue:
		if r, ok := right.(StringValue); ok && op == OpAdd {
			return StringValue{Val: l.Val + r.Val}, nil
		}
	}
	return nil, operandError(TypeError, op, left, right, "")
}

func applyIntegers(op Operator, l, r IntegerValue) (Value, error) {
	switch op {
	case OpMultiply:
		return IntegerValue{Val: new(big.Int).Mul(l.Val, r.Val)}, nil
	case OpAdd:
		return IntegerValue{Val: new(big.Int).Add(l.Val, r.Val)}, nil
	case OpSubtract:
		return IntegerValue{Val: new(big.Int).Sub(l.Val, r.Val)}, nil
	case OpDivide:
		if r.Val.Sign() == 0 {
			return nil, operandError(ArithmeticError, op, l, r, "division by zero")
		}
		quotient, _ := new(big.Rat).SetFrac(l.Val, r.Val).Float64()
		if math.IsInf(quotient, 0) {
			return nil, operandError(ArithmeticError, op, l, r, "result too large for a float")
		}
		return FloatValue{Val: quotient}, nil
	default:
		return nil, fmt.Errorf("unsupported operator %s", op)
	}
}

func applyFloats(op Operator, l, r float64, left, right Value) (Value, error) {
	switch op {
	case OpMultiply:
		return FloatValue{Val: l * r}, nil
	case OpAdd:
		return FloatValue{Val: l + r}, nil
	case OpSubtract:
		return FloatValue{Val: l - r}, nil
	case OpDivide:
		if r == 0 {
			return nil, operandError(ArithmeticError, op, left, right, "division by zero")
		}
		return FloatValue{Val: l / r}, nil
	default:
		return nil, fmt.Errorf("unsupported operator %s", op)
	}
}

func integerToFloat(v IntegerValue) (float64, error) {
	f, _ := new(big.Float).SetInt(v.Val).Float64()
	if math.IsInf(f, 0) {
		return 0, Errorf(ArithmeticError, "integer %s too large to convert to float", v.Val.String())
	}
	return f, nil
}

func operandError(kind ErrorKind, op Operator, left, right Value, detail string) *Error {
	msg := fmt.Sprintf("Error while %s \"%s\"(%s) and \"%s\"(%s)", op.verb(), Format(left), left.Kind(), Format(right), right.Kind())
	if detail != "" {
		msg += ": " + detail
	}
	return &Error{Kind: kind, Message: msg}
}
