package grading

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

const (
	// Precision is the number of significant decimal digits every
	// evaluation works with.
	Precision = 100

	// guardDigits are added while computing pi-based reductions and series.
	guardDigits = 12

	maxFactorial   = 10000
	maxLoopSteps   = 4 * maxFactorial
	maxTrigArgExp  = 50
	maxSeriesTerms = 2000
)

// piDigits holds pi to well beyond Precision+guardDigits.
const piDigits = "3.14159265358979323846264338327950288419716939937510" +
	"58209749445923078164062862089986280348253421170679" +
	"82148086513282306647093844609550582231725359408128" +
	"48111745028410270193852110555964462294895493038196"

var (
	errDomain   = errors.New("argument outside function domain")
	errNonReal  = errors.New("result is not a real number")
	errTooLarge = errors.New("argument too large")
)

var (
	// tolerance is the absolute difference under which two numbers are equal.
	tolerance = apd.New(1, -10)

	decimalCtx = apd.BaseContext.WithPrecision(Precision)
	guardCtx   = apd.BaseContext.WithPrecision(Precision + guardDigits)
	reduceCtx  = apd.BaseContext.WithPrecision(Precision + guardDigits + maxTrigArgExp)

	decOne = apd.New(1, 0)
	decTwo = apd.New(2, 0)

	pi    = mustDecimal(piDigits)
	twoPi = mustMul(reduceCtx, pi, decTwo)
	euler = mustExp(guardCtx, decOne)
)

func mustDecimal(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("grading: bad decimal constant %q: %v", s, err))
	}
	return d
}

func mustMul(ctx *apd.Context, x, y *apd.Decimal) *apd.Decimal {
	d := new(apd.Decimal)
	if _, err := ctx.Mul(d, x, y); err != nil {
		panic(fmt.Sprintf("grading: constant: %v", err))
	}
	return d
}

func mustExp(ctx *apd.Context, x *apd.Decimal) *apd.Decimal {
	d := new(apd.Decimal)
	if _, err := ctx.Exp(d, x); err != nil {
		panic(fmt.Sprintf("grading: constant: %v", err))
	}
	return d
}

// finite rejects NaN and infinite results that slipped past the traps.
func finite(d *apd.Decimal) (*apd.Decimal, error) {
	if d.Form != apd.Finite {
		return nil, errNonReal
	}
	return d, nil
}

func add(x, y *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if _, err := decimalCtx.Add(d, x, y); err != nil {
		return nil, err
	}
	return finite(d)
}

func sub(x, y *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if _, err := decimalCtx.Sub(d, x, y); err != nil {
		return nil, err
	}
	return finite(d)
}

func mul(x, y *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if _, err := decimalCtx.Mul(d, x, y); err != nil {
		return nil, err
	}
	return finite(d)
}

func quo(x, y *apd.Decimal) (*apd.Decimal, error) {
	if y.IsZero() {
		return nil, errDomain
	}
	d := new(apd.Decimal)
	if _, err := decimalCtx.Quo(d, x, y); err != nil {
		return nil, err
	}
	return finite(d)
}

func neg(x *apd.Decimal) *apd.Decimal {
	d := new(apd.Decimal)
	d.Neg(x)
	return d
}

func pow(x, y *apd.Decimal) (*apd.Decimal, error) {
	if x.Sign() < 0 && !isInteger(y) {
		return nil, errNonReal
	}
	if x.IsZero() && y.Sign() < 0 {
		return nil, errDomain
	}
	d := new(apd.Decimal)
	if _, err := decimalCtx.Pow(d, x, y); err != nil {
		return nil, err
	}
	return finite(d)
}

func sqrt(x *apd.Decimal) (*apd.Decimal, error) {
	if x.Sign() < 0 {
		return nil, errNonReal
	}
	d := new(apd.Decimal)
	if _, err := decimalCtx.Sqrt(d, x); err != nil {
		return nil, err
	}
	return finite(d)
}

func isInteger(x *apd.Decimal) bool {
	if x.Form != apd.Finite {
		return false
	}
	var f apd.Decimal
	if _, err := decimalCtx.Floor(&f, x); err != nil {
		return false
	}
	return f.Cmp(x) == 0
}

// smallInt converts x to an int64 when it is an integer in [0, limit].
func smallInt(x *apd.Decimal, limit int64) (int64, error) {
	if !isInteger(x) || x.Sign() < 0 {
		return 0, errDomain
	}
	if x.Cmp(apd.New(limit, 0)) > 0 {
		return 0, errTooLarge
	}
	n, err := x.Int64()
	if err != nil {
		return 0, errTooLarge
	}
	return n, nil
}

func factorial(x *apd.Decimal) (*apd.Decimal, error) {
	n, err := smallInt(x, maxFactorial)
	if err != nil {
		return nil, err
	}
	result := apd.New(1, 0)
	for i := int64(2); i <= n; i++ {
		if _, err := decimalCtx.Mul(result, result, apd.New(i, 0)); err != nil {
			return nil, err
		}
	}
	return finite(result)
}

// loopSteps is the iteration count of a factorial-style loop over x, or
// zero when x is rejected before any loop runs.
func loopSteps(x *apd.Decimal) int64 {
	n, err := smallInt(x, maxFactorial)
	if err != nil {
		return 0
	}
	return n
}

func factorialSteps(args []*apd.Decimal) int64 {
	return loopSteps(args[0])
}

func combinationsSteps(args []*apd.Decimal) int64 {
	n, k := args[0], args[1]
	if k.Cmp(n) > 0 {
		return 0
	}
	rest, err := sub(n, k)
	if err != nil {
		return 0
	}
	if rest.Cmp(k) < 0 {
		k = rest
	}
	return loopSteps(k)
}

// combinations returns n choose k. The running value stays an integer
// binomial coefficient after every step.
func combinations(n, k *apd.Decimal) (*apd.Decimal, error) {
	if !isInteger(n) || !isInteger(k) || n.Sign() < 0 || k.Sign() < 0 {
		return nil, errDomain
	}
	if k.Cmp(n) > 0 {
		return nil, errDomain
	}
	rest, err := sub(n, k)
	if err != nil {
		return nil, err
	}
	if rest.Cmp(k) < 0 {
		k = rest
	}
	kk, err := smallInt(k, maxFactorial)
	if err != nil {
		return nil, err
	}
	base, err := sub(n, apd.New(kk, 0))
	if err != nil {
		return nil, err
	}

	result := apd.New(1, 0)
	for i := int64(1); i <= kk; i++ {
		term, err := add(base, apd.New(i, 0))
		if err != nil {
			return nil, err
		}
		if _, err := decimalCtx.Mul(result, result, term); err != nil {
			return nil, err
		}
		if _, err := decimalCtx.Quo(result, result, apd.New(i, 0)); err != nil {
			return nil, err
		}
	}
	return finite(result)
}

// reduceAngle maps x into [-pi, pi]. The extra digits of reduceCtx cover
// the integer part of arguments up to 1e50.
func reduceAngle(x *apd.Decimal) (*apd.Decimal, error) {
	if x.Form != apd.Finite {
		return nil, errNonReal
	}
	if x.NumDigits()+int64(x.Exponent) > maxTrigArgExp {
		return nil, errTooLarge
	}
	var turns, offset apd.Decimal
	r := new(apd.Decimal)
	if _, err := reduceCtx.Quo(&turns, x, twoPi); err != nil {
		return nil, err
	}
	if _, err := reduceCtx.RoundToIntegralValue(&turns, &turns); err != nil {
		return nil, err
	}
	if _, err := reduceCtx.Mul(&offset, &turns, twoPi); err != nil {
		return nil, err
	}
	if _, err := reduceCtx.Sub(r, x, &offset); err != nil {
		return nil, err
	}
	return r, nil
}

// taylor sums the sine (start=1) or cosine (start=0) series at r.
func taylor(r *apd.Decimal, start int64) (*apd.Decimal, error) {
	var sq apd.Decimal
	if _, err := guardCtx.Mul(&sq, r, r); err != nil {
		return nil, err
	}
	term := apd.New(1, 0)
	if start == 1 {
		term.Set(r)
	}
	sum := new(apd.Decimal).Set(term)
	eps := apd.New(1, -int32(Precision+guardDigits))

	var abs apd.Decimal
	for n := start; n < maxSeriesTerms; n += 2 {
		// term *= -r^2 / ((n+1)(n+2))
		if _, err := guardCtx.Mul(term, term, &sq); err != nil {
			return nil, err
		}
		if _, err := guardCtx.Quo(term, term, apd.New((n+1)*(n+2), 0)); err != nil {
			return nil, err
		}
		term.Neg(term)
		if _, err := guardCtx.Add(sum, sum, term); err != nil {
			return nil, err
		}
		abs.Abs(term)
		if abs.Cmp(eps) < 0 {
			break
		}
	}
	return sum, nil
}

func sin(x *apd.Decimal) (*apd.Decimal, error) {
	r, err := reduceAngle(x)
	if err != nil {
		return nil, err
	}
	s, err := taylor(r, 1)
	if err != nil {
		return nil, err
	}
	return round(s)
}

func cos(x *apd.Decimal) (*apd.Decimal, error) {
	r, err := reduceAngle(x)
	if err != nil {
		return nil, err
	}
	c, err := taylor(r, 0)
	if err != nil {
		return nil, err
	}
	return round(c)
}

func tan(x *apd.Decimal) (*apd.Decimal, error) {
	r, err := reduceAngle(x)
	if err != nil {
		return nil, err
	}
	s, err := taylor(r, 1)
	if err != nil {
		return nil, err
	}
	c, err := taylor(r, 0)
	if err != nil {
		return nil, err
	}
	var abs apd.Decimal
	abs.Abs(c)
	// Rounding pi to Precision digits leaves cos(pi/2) near 1e-100, so
	// anything this small is a pole.
	if abs.Cmp(apd.New(1, -(Precision-guardDigits))) < 0 {
		return nil, errDomain
	}
	t := new(apd.Decimal)
	if _, err := guardCtx.Quo(t, s, c); err != nil {
		return nil, err
	}
	return round(t)
}

// round brings a guard-precision result back to working precision.
func round(x *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if _, err := decimalCtx.Round(d, x); err != nil {
		return nil, err
	}
	return finite(d)
}

// withinTolerance reports whether |a - b| <= 1e-10.
func withinTolerance(a, b *apd.Decimal) bool {
	var diff apd.Decimal
	if _, err := decimalCtx.Sub(&diff, a, b); err != nil {
		return false
	}
	diff.Abs(&diff)
	return diff.Cmp(tolerance) <= 0
}

// numberString renders d without trailing zeros.
func numberString(d *apd.Decimal) string {
	var r apd.Decimal
	if _, _, err := decimalCtx.Reduce(&r, d); err != nil {
		return d.Text('f')
	}
	if r.IsZero() {
		return "0"
	}
	return r.Text('f')
}
