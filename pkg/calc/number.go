package calc

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// Number is the result of an evaluation: either an integer or a float.
// The zero value is the integer 0.
type Number struct {
	isFloat bool
	i       int64
	f       float64
}

// Int returns an integer Number.
func Int(v int64) Number { return Number{i: v} }

// Float returns a floating-point Number.
func Float(v float64) Number { return Number{isFloat: true, f: v} }

// IsInt reports whether n holds an integer.
func (n Number) IsInt() bool { return !n.isFloat }

// Int64 returns the integer value and true, or 0 and false for floats.
func (n Number) Int64() (int64, bool) {
	if n.isFloat {
		return 0, false
	}
	return n.i, true
}

// Float64 returns the value converted to float64.
func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// Equal reports whether a and b have the same kind and value.
// NaN is equal to NaN so that repeated evaluations compare equal.
func (n Number) Equal(o Number) bool {
	if n.isFloat != o.isFloat {
		return false
	}
	if !n.isFloat {
		return n.i == o.i
	}
	if math.IsNaN(n.f) && math.IsNaN(o.f) {
		return true
	}
	return n.f == o.f && math.Signbit(n.f) == math.Signbit(o.f)
}

// String formats the number naturally: integers without a decimal point,
// floats in their shortest round-trip form with at least one fractional digit.
func (n Number) String() string {
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10)
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	// Exponent of the leading digit decides between fixed and scientific form.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func add(a, b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() + b.Float64()), nil
	}
	s := a.i + b.i
	if (a.i^s)&(b.i^s) < 0 {
		return Number{}, domain.ErrOverflow
	}
	return Int(s), nil
}

func sub(a, b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() - b.Float64()), nil
	}
	d := a.i - b.i
	if (a.i^b.i)&(a.i^d) < 0 {
		return Number{}, domain.ErrOverflow
	}
	return Int(d), nil
}

func mul(a, b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() * b.Float64()), nil
	}
	p, ok := mulInt(a.i, b.i)
	if !ok {
		return Number{}, domain.ErrOverflow
	}
	return Int(p), nil
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

// trueDiv always yields a float, as "/" does for integers too.
func trueDiv(a, b Number) (Number, error) {
	if b.Float64() == 0 {
		return Number{}, domain.ErrDivisionByZero
	}
	return Float(a.Float64() / b.Float64()), nil
}

func floorDiv(a, b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		q, _, err := floatDivMod(a.Float64(), b.Float64())
		if err != nil {
			return Number{}, err
		}
		return Float(q), nil
	}
	if b.i == 0 {
		return Number{}, domain.ErrDivisionByZero
	}
	if a.i == math.MinInt64 && b.i == -1 {
		return Number{}, domain.ErrOverflow
	}
	q := a.i / b.i
	if a.i%b.i != 0 && (a.i < 0) != (b.i < 0) {
		q--
	}
	return Int(q), nil
}

// mod takes the sign of the divisor.
func mod(a, b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		_, m, err := floatDivMod(a.Float64(), b.Float64())
		if err != nil {
			return Number{}, err
		}
		return Float(m), nil
	}
	if b.i == 0 {
		return Number{}, domain.ErrDivisionByZero
	}
	if b.i == -1 {
		return Int(0), nil
	}
	r := a.i % b.i
	if r != 0 && (r < 0) != (b.i < 0) {
		r += b.i
	}
	return Int(r), nil
}

func floatDivMod(x, y float64) (float64, float64, error) {
	if y == 0 {
		return 0, 0, domain.ErrDivisionByZero
	}
	m := math.Mod(x, y)
	div := (x - m) / y
	if m != 0 {
		if (y < 0) != (m < 0) {
			m += y
			div -= 1
		}
	} else {
		m = math.Copysign(0, y)
	}

	var q float64
	if div != 0 {
		q = math.Floor(div)
		if div-q > 0.5 {
			q += 1
		}
	} else {
		q = math.Copysign(0, x/y)
	}
	return q, m, nil
}

func pow(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat {
		if b.i >= 0 {
			return powInt(a.i, b.i)
		}
		if a.i == 0 {
			return Number{}, domain.ErrDivisionByZero
		}
	}

	x, y := a.Float64(), b.Float64()
	if y == 0 {
		return Float(1), nil
	}
	if x == 0 && y < 0 {
		return Number{}, domain.ErrDivisionByZero
	}
	if x < 0 && !math.IsInf(x, 0) && y != math.Trunc(y) && !math.IsInf(y, 0) {
		return Number{}, domain.ErrDomain
	}
	r := powFloat(x, y)
	if math.IsInf(r, 0) && !math.IsInf(x, 0) && !math.IsInf(y, 0) {
		return Number{}, domain.ErrOverflow
	}
	return Float(r), nil
}

// powPrec is the working precision for integral float powers; the product is
// rounded to float64 once at the end.
const powPrec = 256

// powFloat raises x to an integral y by squaring in extended precision so the
// result is correctly rounded. Other exponents go through math.Pow.
func powFloat(x, y float64) float64 {
	if x == 0 || math.IsInf(x, 0) || math.IsNaN(x) || y != math.Trunc(y) || math.Abs(y) > 1<<53 {
		return math.Pow(x, y)
	}

	n := uint64(math.Abs(y))
	base := new(big.Float).SetPrec(powPrec).SetFloat64(x)
	acc := new(big.Float).SetPrec(powPrec).SetInt64(1)
	for n > 0 {
		if n&1 == 1 {
			acc.Mul(acc, base)
		}
		n >>= 1
		if n > 0 {
			base.Mul(base, base)
		}
	}
	if y < 0 {
		acc.Quo(new(big.Float).SetPrec(powPrec).SetInt64(1), acc)
	}
	r, _ := acc.Float64()
	return r
}

func powInt(base, exp int64) (Number, error) {
	result := int64(1)
	for exp > 0 {
		var ok bool
		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return Number{}, domain.ErrOverflow
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = mulInt(base, base); !ok {
				return Number{}, domain.ErrOverflow
			}
		}
	}
	return Int(result), nil
}

func neg(a Number) (Number, error) {
	if a.isFloat {
		return Float(-a.f), nil
	}
	if a.i == math.MinInt64 {
		return Number{}, domain.ErrOverflow
	}
	return Int(-a.i), nil
}
