package edn

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimal is an arbitrary-precision base-10 number: coef * 10^-scale.
// It backs the M-suffixed exact decimal literal (4.7M) and is never
// implicitly converted to or from binary floats. The zero Decimal is 0.
type Decimal struct {
	coef  *big.Int
	scale int32
}

// NewDecimal creates a decimal from a coefficient and scale. The value is
// coef * 10^-scale, so NewDecimal(big.NewInt(470), 2) is 4.70.
func NewDecimal(coef *big.Int, scale int32) Decimal {
	return Decimal{coef: new(big.Int).Set(coef), scale: scale}
}

// DecimalFromInt64 creates a scale-0 decimal.
func DecimalFromInt64(v int64) Decimal {
	return Decimal{coef: big.NewInt(v)}
}

// ParseDecimal parses a decimal from text: an optional sign, digits, an
// optional fractional part, and an optional e/E exponent. The trailing M
// of an edn literal is not part of the accepted syntax.
func ParseDecimal(s string) (Decimal, error) {
	orig := s
	if s == "" {
		return Decimal{}, fmt.Errorf("edn: empty decimal")
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	// Split off the exponent first.
	exp := int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, ok := new(big.Int).SetString(s[i+1:], 10)
		if !ok || !e.IsInt64() {
			return Decimal{}, fmt.Errorf("edn: invalid decimal exponent in %q", orig)
		}
		exp = e.Int64()
		s = s[:i]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return Decimal{}, fmt.Errorf("edn: invalid decimal %q", orig)
	}
	for _, part := range []string{intPart, fracPart} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return Decimal{}, fmt.Errorf("edn: invalid decimal %q", orig)
			}
		}
	}

	coef, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("edn: invalid decimal %q", orig)
	}
	if neg {
		coef.Neg(coef)
	}

	scale := int64(len(fracPart)) - exp
	if scale < -1<<31 || scale > 1<<31-1 {
		return Decimal{}, fmt.Errorf("edn: decimal scale out of range in %q", orig)
	}
	return Decimal{coef: coef, scale: int32(scale)}, nil
}

func (d Decimal) coefOrZero() *big.Int {
	if d.coef == nil {
		return new(big.Int)
	}
	return d.coef
}

// Coef returns a copy of the coefficient.
func (d Decimal) Coef() *big.Int {
	return new(big.Int).Set(d.coefOrZero())
}

// Scale returns the scale; the value is Coef() * 10^-Scale().
func (d Decimal) Scale() int32 {
	return d.scale
}

// Sign returns -1, 0, or 1.
func (d Decimal) Sign() int {
	return d.coefOrZero().Sign()
}

// IsZero reports whether the value is zero at any scale.
func (d Decimal) IsZero() bool {
	return d.coefOrZero().Sign() == 0
}

// Neg returns the negated value.
func (d Decimal) Neg() Decimal {
	return Decimal{coef: new(big.Int).Neg(d.coefOrZero()), scale: d.scale}
}

// Abs returns the absolute value.
func (d Decimal) Abs() Decimal {
	return Decimal{coef: new(big.Int).Abs(d.coefOrZero()), scale: d.scale}
}

// Cmp compares two decimals numerically, returning -1, 0, or 1.
// Trailing zeros are insignificant: 4.20 compares equal to 4.2.
func (d Decimal) Cmp(o Decimal) int {
	a, b := d.coefOrZero(), o.coefOrZero()
	// Align to the larger scale before comparing coefficients.
	if d.scale < o.scale {
		a = new(big.Int).Mul(a, pow10(int64(o.scale-d.scale)))
	} else if o.scale < d.scale {
		b = new(big.Int).Mul(b, pow10(int64(d.scale-o.scale)))
	}
	return a.Cmp(b)
}

// Equal reports numeric equality.
func (d Decimal) Equal(o Decimal) bool {
	return d.Cmp(o) == 0
}

// Float64 returns the nearest binary float. The conversion is lossy for
// values a float64 cannot represent exactly.
func (d Decimal) Float64() float64 {
	f := new(big.Float).SetInt(d.coefOrZero())
	if d.scale > 0 {
		f.Quo(f, new(big.Float).SetInt(pow10(int64(d.scale))))
	} else if d.scale < 0 {
		f.Mul(f, new(big.Float).SetInt(pow10(int64(-d.scale))))
	}
	out, _ := f.Float64()
	return out
}

// String renders the decimal in plain positional notation, without an
// exponent and without the edn M suffix. A scale of zero or less yields
// no decimal point: NewDecimal(4, 0) is "4", NewDecimal(42, -1) is "420".
func (d Decimal) String() string {
	coef := d.coefOrZero()
	digits := new(big.Int).Abs(coef).String()
	neg := coef.Sign() < 0

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	switch {
	case d.scale <= 0:
		b.WriteString(digits)
		for i := int32(0); i < -d.scale; i++ {
			b.WriteByte('0')
		}
	default:
		scale := int(d.scale)
		if len(digits) <= scale {
			b.WriteString("0.")
			for i := len(digits); i < scale; i++ {
				b.WriteByte('0')
			}
			b.WriteString(digits)
		} else {
			cut := len(digits) - scale
			b.WriteString(digits[:cut])
			b.WriteByte('.')
			b.WriteString(digits[cut:])
		}
	}
	return b.String()
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}
