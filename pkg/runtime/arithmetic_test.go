package runtime

import (
	"math/big"
	"strings"
	"testing"
)

func TestApplyIntegerArithmetic(t *testing.T) {
	cases := []struct {
		op   Operator
		l, r int64
		want string
	}{
		{OpAdd, 2, 3, "5"},
		{OpSubtract, 2, 3, "-1"},
		{OpMultiply, 4, 5, "20"},
	}
	for _, tc := range cases {
		got, err := Apply(tc.op, NewInteger(tc.l), NewInteger(tc.r))
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.op, err)
		}
		if got.Kind() != KindInteger {
			t.Fatalf("%s: kind = %s, want Integer", tc.op, got.Kind())
		}
		if Format(got) != tc.want {
			t.Fatalf("%s: result = %q, want %q", tc.op, Format(got), tc.want)
		}
	}
}

func TestApplyIntegersDoNotOverflow(t *testing.T) {
	big1, _ := new(big.Int).SetString("9223372036854775807", 10)
	got, err := Apply(OpMultiply, IntegerValue{Val: big1}, NewInteger(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(got) != "92233720368547758070" {
		t.Fatalf("result = %q", Format(got))
	}
}

func TestApplyDivisionIsTrueDivision(t *testing.T) {
	got, err := Apply(OpDivide, NewInteger(6), NewInteger(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != KindFloat || Format(got) != "1.5" {
		t.Fatalf("6/4 = %s %q, want Float 1.5", got.Kind(), Format(got))
	}
	got, err = Apply(OpDivide, NewInteger(6), NewInteger(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(got) != "2.0" {
		t.Fatalf("6/3 = %q, want 2.0", Format(got))
	}
}

func TestApplyMixedNumericPromotesToFloat(t *testing.T) {
	got, err := Apply(OpAdd, NewInteger(3), FloatValue{Val: 4.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != KindFloat || Format(got) != "7.5" {
		t.Fatalf("3+4.5 = %s %q", got.Kind(), Format(got))
	}
	got, err = Apply(OpMultiply, FloatValue{Val: 1.5}, NewInteger(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(got) != "3.0" {
		t.Fatalf("1.5*2 = %q, want 3.0", Format(got))
	}
}

func TestApplyDivisionByZero(t *testing.T) {
	cases := []struct {
		name string
		l, r Value
	}{
		{name: "integer", l: NewInteger(5), r: NewInteger(0)},
		{name: "float", l: FloatValue{Val: 5}, r: FloatValue{Val: 0}},
		{name: "mixed", l: FloatValue{Val: 5}, r: NewInteger(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(OpDivide, tc.l, tc.r)
			if !IsKind(err, ArithmeticError) {
				t.Fatalf("expected ArithmeticError, got %v", err)
			}
			if !strings.Contains(err.Error(), "division by zero") {
				t.Fatalf("error = %q", err.Error())
			}
		})
	}
}

func TestApplyStrings(t *testing.T) {
	got, err := Apply(OpAdd, StringValue{Val: "ab"}, StringValue{Val: "cd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(got) != "abcd" {
		t.Fatalf("concat = %q", Format(got))
	}
}

func TestApplyTypeErrors(t *testing.T) {
	cases := []struct {
		op   Operator
		l, r Value
		msg  string
	}{
		{OpAdd, StringValue{Val: "a"}, NewInteger(1), `Error while adding "a"(String) and "1"(Integer)`},
		{OpSubtract, StringValue{Val: "a"}, StringValue{Val: "b"}, `Error while subtracting "a"(String) and "b"(String)`},
		{OpMultiply, StringValue{Val: "ab"}, NewInteger(3), `Error while multiplying "ab"(String) and "3"(Integer)`},
		{OpDivide, FloatValue{Val: 1.5}, StringValue{Val: "x"}, `Error while dividing "1.5"(Float) and "x"(String)`},
	}
	for _, tc := range cases {
		_, err := Apply(tc.op, tc.l, tc.r)
		if !IsKind(err, TypeError) {
			t.Fatalf("%s: expected TypeError, got %v", tc.op, err)
		}
		if err.(*Error).Message != tc.msg {
			t.Fatalf("%s: message = %q, want %q", tc.op, err.(*Error).Message, tc.msg)
		}
	}
}

func TestApplyHugeIntegerToFloat(t *testing.T) {
	huge := new(big.Int).Exp(big.NewInt(10), big.NewInt(400), nil)
	_, err := Apply(OpAdd, IntegerValue{Val: huge}, FloatValue{Val: 1})
	if !IsKind(err, ArithmeticError) {
		t.Fatalf("expected ArithmeticError, got %v", err)
	}
	got, err := Apply(OpDivide, IntegerValue{Val: huge}, IntegerValue{Val: huge})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(got) != "1.0" {
		t.Fatalf("huge/huge = %q", Format(got))
	}
}
