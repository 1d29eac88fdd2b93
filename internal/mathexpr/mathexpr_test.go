// Package mathexpr_test tests the mathexpr package
package mathexpr_test

import (
	"errors"
	"math"
	"testing"

	"venbot/internal/mathexpr"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "addition", input: "2 + 2", expected: 4},
		{name: "precedence", input: "2 + 3 * 4", expected: 14},
		{name: "parentheses", input: "(2 + 3) * 4", expected: 20},
		{name: "division", input: "10 / 4", expected: 2.5},
		{name: "exponent", input: "2 ^ 10", expected: 1024},
		{name: "exponent right associative", input: "2 ^ 3 ^ 2", expected: 512},
		{name: "unary minus", input: "-5 + 3", expected: -2},
		{name: "double unary minus", input: "--5", expected: 5},
		{name: "decimal literals", input: "0.5 * 4", expected: 2},
		{name: "nested parens", input: "((1 + 2) * (3 + 4))", expected: 21},
		{name: "whitespace ignored", input: "  7 *  6 ", expected: 42},
		{name: "unary on parens", input: "-(2 + 3)", expected: -5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := mathexpr.Evaluate(tc.input)
			if err != nil {
				t.Fatalf("Evaluate(%q) returned error: %v", tc.input, err)
			}
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Evaluate(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: mathexpr.ErrSyntax},
		{name: "spaces only", input: "   ", want: mathexpr.ErrSyntax},
		{name: "garbage", input: "abc", want: mathexpr.ErrSyntax},
		{name: "trailing operator", input: "2 +", want: mathexpr.ErrSyntax},
		{name: "unbalanced parens", input: "(1 + 2", want: mathexpr.ErrSyntax},
		{name: "double dots", input: "1..2 + 1", want: mathexpr.ErrSyntax},
		{name: "division by zero", input: "10 / 0", want: mathexpr.ErrDivisionByZero},
		{name: "nested division by zero", input: "1 + 2 / (3 - 3)", want: mathexpr.ErrDivisionByZero},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := mathexpr.Evaluate(tc.input)
			if err == nil {
				t.Fatalf("Evaluate(%q) succeeded, want error %v", tc.input, tc.want)
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Evaluate(%q) error = %v, want %v", tc.input, err, tc.want)
			}
		})
	}
}
