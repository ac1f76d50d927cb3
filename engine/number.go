package engine

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd"
)

// MaxExactBits is the largest bit length an exact power may grow to before it's rejected with ExceptionalValueIntOverflow.
const MaxExactBits = 1 << 18

var errNotANumber = errors.New("not a number")

// Number is a numeric value, either Integer, Rational, or Float.
// Integer and Rational are exact. Float is a float64 approximation.
type Number interface {
	fmt.Stringer
	number()
}

// Integer is an arbitrary-precision integer. The zero value is 0.
type Integer struct {
	i *big.Int
}

// NewInteger returns an Integer of n.
func NewInteger(n int64) Integer {
	return Integer{i: big.NewInt(n)}
}

func (Integer) number() {}

func (i Integer) big() *big.Int {
	if i.i == nil {
		return new(big.Int)
	}
	return i.i
}

func (i Integer) String() string {
	return i.big().String()
}

// Rational is an exact fraction whose denominator isn't 1. The zero value is 0.
type Rational struct {
	r *big.Rat
}

// NewRational returns p/q as an exact Number. If q divides p, it's an Integer.
func NewRational(p, q int64) (Number, error) {
	if q == 0 {
		return nil, ExceptionalValueZeroDivisor
	}
	return normalize(big.NewRat(p, q)), nil
}

func (Rational) number() {}

func (r Rational) rat() *big.Rat {
	if r.r == nil {
		return new(big.Rat)
	}
	return r.r
}

func (r Rational) String() string {
	return r.rat().RatString()
}

// Float is a floating-point number.
type Float float64

func (Float) number() {}

func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// normalize returns an Integer if r is whole, otherwise a Rational. r is owned by the result.
func normalize(r *big.Rat) Number {
	if r.IsInt() {
		return Integer{i: new(big.Int).Set(r.Num())}
	}
	return Rational{r: r}
}

// exact returns a fresh big.Rat for x if x is exact.
func exact(x Number) (*big.Rat, bool) {
	switch x := x.(type) {
	case Integer:
		return new(big.Rat).SetInt(x.big()), true
	case Rational:
		return new(big.Rat).Set(x.rat()), true
	default:
		return nil, false
	}
}

// IsExact checks if x is either Integer or Rational.
func IsExact(x Number) bool {
	_, ok := exact(x)
	return ok
}

// Approximate coerces x into float64.
// An exact value too large for float64 results in ExceptionalValueFloatOverflow.
func Approximate(x Number) (float64, error) {
	switch x := x.(type) {
	case Float:
		return float64(x), nil
	case Integer, Rational:
		r, _ := exact(x)
		f, _ := r.Float64()
		if math.IsInf(f, 0) {
			return 0, ExceptionalValueFloatOverflow
		}
		return f, nil
	default:
		return 0, ExceptionalValueUndefined
	}
}

func checkFloat(f float64) (Number, error) {
	switch {
	case math.IsInf(f, 0):
		return nil, ExceptionalValueFloatOverflow
	case math.IsNaN(f):
		return nil, ExceptionalValueUndefined
	default:
		return Float(f), nil
	}
}

// ParseNumber parses a textual number such as "3", "-3/4", "0.125", or "1e-6".
// Decimals are read exactly, so "0.125" is 1/8.
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if p, q, ok := strings.Cut(s, "/"); ok {
		n, ok := new(big.Int).SetString(strings.TrimSpace(p), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errNotANumber, s)
		}
		d, ok := new(big.Int).SetString(strings.TrimSpace(q), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errNotANumber, s)
		}
		if d.Sign() == 0 {
			return nil, ExceptionalValueZeroDivisor
		}
		return normalize(new(big.Rat).SetFrac(n, d)), nil
	}
	if i, ok := new(big.Int).SetString(s, 10); ok {
		return Integer{i: i}, nil
	}
	return decimal(s, true)
}

// decimal parses a decimal literal. If exactly is false, the result is a Float.
func decimal(s string, exactly bool) (Number, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errNotANumber, s)
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("%w: %q", errNotANumber, s)
	}

	if !exactly {
		f, err := d.Float64()
		if err != nil {
			return nil, ExceptionalValueFloatOverflow
		}
		return checkFloat(f)
	}

	exp := int64(d.Exponent)
	if exp > MaxExactBits/3 || exp < -MaxExactBits/3 {
		return nil, ExceptionalValueIntOverflow
	}
	r := new(big.Rat).SetInt(&d.Coeff)
	if d.Negative {
		r.Neg(r)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(abs(exp)), nil)
	if exp < 0 {
		r.Quo(r, new(big.Rat).SetInt(scale))
	} else {
		r.Mul(r, new(big.Rat).SetInt(scale))
	}
	return normalize(r), nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Add returns x+y.
func Add(x, y Number) (Number, error) {
	return arith(x, y, func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Add(a, b), nil
	}, func(a, b *big.Rat) (*big.Rat, error) {
		return a.Add(a, b), nil
	}, func(a, b float64) (float64, error) {
		return a + b, nil
	})
}

// Sub returns x-y.
func Sub(x, y Number) (Number, error) {
	return arith(x, y, func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Sub(a, b), nil
	}, func(a, b *big.Rat) (*big.Rat, error) {
		return a.Sub(a, b), nil
	}, func(a, b float64) (float64, error) {
		return a - b, nil
	})
}

// Mul returns x*y.
func Mul(x, y Number) (Number, error) {
	return arith(x, y, func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Mul(a, b), nil
	}, func(a, b *big.Rat) (*big.Rat, error) {
		return a.Mul(a, b), nil
	}, func(a, b float64) (float64, error) {
		return a * b, nil
	})
}

// Div returns x/y. Division of integers is exact, so 1/2 is a Rational.
func Div(x, y Number) (Number, error) {
	return arith(x, y, nil, func(a, b *big.Rat) (*big.Rat, error) {
		if b.Sign() == 0 {
			return nil, ExceptionalValueZeroDivisor
		}
		return a.Quo(a, b), nil
	}, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, ExceptionalValueZeroDivisor
		}
		return a / b, nil
	})
}

// arith applies the integer, rational, or float variant of a binary operation depending on the operands.
// fi may be nil in which case integers are treated as rationals.
func arith(x, y Number, fi func(a, b *big.Int) (*big.Int, error), fr func(a, b *big.Rat) (*big.Rat, error), ff func(a, b float64) (float64, error)) (Number, error) {
	if i, ok := x.(Integer); ok && fi != nil {
		if j, ok := y.(Integer); ok {
			r, err := fi(i.big(), j.big())
			if err != nil {
				return nil, err
			}
			return Integer{i: r}, nil
		}
	}

	if a, ok := exact(x); ok {
		if b, ok := exact(y); ok {
			r, err := fr(a, b)
			if err != nil {
				return nil, err
			}
			return normalize(r), nil
		}
	}

	a, err := Approximate(x)
	if err != nil {
		return nil, err
	}
	b, err := Approximate(y)
	if err != nil {
		return nil, err
	}
	f, err := ff(a, b)
	if err != nil {
		return nil, err
	}
	return checkFloat(f)
}

// Neg returns -x.
func Neg(x Number) (Number, error) {
	switch x := x.(type) {
	case Integer:
		return Integer{i: new(big.Int).Neg(x.big())}, nil
	case Rational:
		return Rational{r: new(big.Rat).Neg(x.rat())}, nil
	case Float:
		return -x, nil
	default:
		return nil, ExceptionalValueUndefined
	}
}

// Pos returns x.
func Pos(x Number) (Number, error) {
	switch x.(type) {
	case Integer, Rational, Float:
		return x, nil
	default:
		return nil, ExceptionalValueUndefined
	}
}

// Power returns x raised to the power of y.
// An exact base with an Integer exponent stays exact, even if the exponent is negative.
// Otherwise, the result is a Float.
func Power(x, y Number) (Number, error) {
	if n, ok := y.(Integer); ok {
		if a, ok := exact(x); ok {
			return powExact(a, n.big())
		}
	}
	return powFloat(x, y)
}

func powExact(a *big.Rat, e *big.Int) (Number, error) {
	switch {
	case a.Sign() == 0:
		switch e.Sign() {
		case -1:
			return nil, ExceptionalValueZeroDivisor
		case 0:
			return NewInteger(1), nil
		default:
			return NewInteger(0), nil
		}
	case a.IsInt() && a.Num().IsInt64() && a.Num().Int64() == 1:
		return NewInteger(1), nil
	case a.IsInt() && a.Num().IsInt64() && a.Num().Int64() == -1:
		if e.Bit(0) == 0 {
			return NewInteger(1), nil
		}
		return NewInteger(-1), nil
	}

	if !e.IsInt64() || e.Int64() == math.MinInt64 {
		return nil, ExceptionalValueIntOverflow
	}
	k, neg := e.Int64(), e.Sign() < 0
	if neg {
		k = -k
	}

	bits := a.Num().BitLen()
	if b := a.Denom().BitLen(); b > bits {
		bits = b
	}
	if k > int64(MaxExactBits/bits) {
		return nil, ExceptionalValueIntOverflow
	}

	num := new(big.Int).Exp(a.Num(), big.NewInt(k), nil)
	den := new(big.Int).Exp(a.Denom(), big.NewInt(k), nil)
	if neg {
		num, den = den, num
	}
	return normalize(new(big.Rat).SetFrac(num, den)), nil
}

func powFloat(x, y Number) (Number, error) {
	a, err := Approximate(x)
	if err != nil {
		return nil, err
	}
	b, err := Approximate(y)
	if err != nil {
		return nil, err
	}

	switch {
	case a == 0 && b < 0:
		return nil, ExceptionalValueZeroDivisor
	case a < 0 && b != math.Trunc(b):
		return nil, ExceptionalValueUndefined
	}

	return checkFloat(math.Pow(a, b))
}
