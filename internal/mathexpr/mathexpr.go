// Package mathexpr implements a small recursive-descent evaluator restricted
// to arithmetic: numeric literals, + - * / ^, unary minus, and parentheses.
// It is deliberately not a general-purpose expression engine.
package mathexpr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrSyntax is returned when the input is not a valid arithmetic expression.
	ErrSyntax = errors.New("invalid arithmetic expression")
	// ErrDivisionByZero is returned when the expression divides by zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNotFinite is returned when evaluation produces NaN or infinity.
	ErrNotFinite = errors.New("result is not a finite number")
)

// Evaluate parses and evaluates expr. It fails closed: any malformed input,
// division by zero, or non-finite result yields an error, never a panic.
func Evaluate(expr string) (float64, error) {
	p := &parser{input: []rune(strings.TrimSpace(expr))}
	if len(p.input) == 0 {
		return 0, ErrSyntax
	}

	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, string(p.input[p.pos]), p.pos)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNotFinite
	}
	return value, nil
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() (rune, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

// parseExpr handles addition and subtraction.
func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

// parseTerm handles multiplication and division.
func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left /= right
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	if op, ok := p.peek(); ok && op == '-' {
		p.pos++
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.parsePower()
}

// parsePower handles exponentiation; ^ is right-associative.
func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	op, ok := p.peek()
	if !ok || op != '^' {
		return base, nil
	}
	p.pos++
	exponent, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exponent), nil
}

func (p *parser) parsePrimary() (float64, error) {
	r, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	}

	if r == '(' {
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		r, ok = p.peek()
		if !ok || r != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrSyntax)
		}
		p.pos++
		return value, nil
	}

	return p.parseNumber()
}

func (p *parser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("%w: expected number at position %d", ErrSyntax, start)
	}

	value, err := strconv.ParseFloat(string(p.input[start:p.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, string(p.input[start:p.pos]))
	}
	return value, nil
}
