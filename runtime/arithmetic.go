package runtime

import (
	"fmt"
	"math"
)

// Add implements `+` (spec.md §4.4 / §9 Open Questions): number+number adds;
// otherwise, if either operand is a string, the result concatenates their
// display representations as strings; any other combination is a type
// error.
func Add(a, b *Value) (*Value, error) {
	if a.Kind == KNumber && b.Kind == KNumber {
		return NewNumber(a.Number + b.Number), nil
	}
	if a.Kind == KString || b.Kind == KString {
		return NewString(a.Display() + b.Display()), nil
	}
	return nil, fmt.Errorf("cannot apply + to %s and %s", a.Kind, b.Kind)
}

func numericBinary(op string, a, b *Value, fn func(x, y float64) (float64, error)) (*Value, error) {
	if a.Kind != KNumber || b.Kind != KNumber {
		return nil, fmt.Errorf("cannot apply %s to %s and %s", op, a.Kind, b.Kind)
	}
	n, err := fn(a.Number, b.Number)
	if err != nil {
		return nil, err
	}
	return NewNumber(n), nil
}

func Sub(a, b *Value) (*Value, error) {
	return numericBinary("-", a, b, func(x, y float64) (float64, error) { return x - y, nil })
}

func Mul(a, b *Value) (*Value, error) {
	return numericBinary("*", a, b, func(x, y float64) (float64, error) { return x * y, nil })
}

func Div(a, b *Value) (*Value, error) {
	return numericBinary("/", a, b, func(x, y float64) (float64, error) { return x / y, nil })
}

func Mod(a, b *Value) (*Value, error) {
	return numericBinary("%", a, b, func(x, y float64) (float64, error) { return math.Mod(x, y), nil })
}

func Pow(a, b *Value) (*Value, error) {
	return numericBinary("**", a, b, func(x, y float64) (float64, error) { return math.Pow(x, y), nil })
}

// Negate implements unary `-`, which requires a number operand.
func Negate(a *Value) (*Value, error) {
	if a.Kind != KNumber {
		return nil, fmt.Errorf("cannot negate %s", a.Kind)
	}
	return NewNumber(-a.Number), nil
}

// Compare implements the four relational operators. Numbers compare
// numerically; strings compare lexicographically; any other pairing is a
// type error.
func Compare(op string, a, b *Value) (*Value, error) {
	var less, equal bool
	switch {
	case a.Kind == KNumber && b.Kind == KNumber:
		less, equal = a.Number < b.Number, a.Number == b.Number
	case a.Kind == KString && b.Kind == KString:
		less, equal = a.Str < b.Str, a.Str == b.Str
	default:
		return nil, fmt.Errorf("cannot compare %s and %s", a.Kind, b.Kind)
	}
	switch op {
	case "<":
		return NewBool(less), nil
	case "<=":
		return NewBool(less || equal), nil
	case ">":
		return NewBool(!less && !equal), nil
	case ">=":
		return NewBool(!less), nil
	}
	return nil, fmt.Errorf("unknown comparison operator %q", op)
}
