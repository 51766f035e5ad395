package grading

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Kind classifies the outcome of evaluating an answer.
type Kind int

const (
	// KindUnevaluable means the expression parsed but could not be reduced
	// to a real number (division by zero, domain error, oversized input).
	KindUnevaluable Kind = iota

	// KindNumber means the expression evaluated to a finite real number.
	KindNumber

	// KindText means the input is not an arithmetic expression at all and
	// never entered numeric evaluation. Text values compare as strings.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unevaluable"
	}
}

// Value is the result of evaluating one answer. The zero Value is
// unevaluable.
type Value struct {
	Kind   Kind
	Number *apd.Decimal
	text   string
}

func numberValue(d *apd.Decimal) Value {
	return Value{Kind: KindNumber, Number: d}
}

func textValue(s string) Value {
	return Value{Kind: KindText, text: strings.TrimSpace(s)}
}

// IsNumber reports whether v holds a finite number.
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber && v.Number != nil
}

// String renders v for diagnostics.
func (v Value) String() string {
	switch {
	case v.IsNumber():
		return numberString(v.Number)
	case v.Kind == KindText:
		return v.text
	default:
		return "NaN"
	}
}

// Equal reports whether a and b are the same answer:
//   - two numbers are equal when |a - b| <= 1e-10
//   - two text values are equal when their trimmed strings match
//   - anything involving an unevaluable value, or a number against text,
//     is never equal.
func Equal(a, b Value) bool {
	switch {
	case a.IsNumber() && b.IsNumber():
		return withinTolerance(a.Number, b.Number)
	case a.Kind == KindText && b.Kind == KindText:
		return a.text == b.text
	default:
		return false
	}
}
