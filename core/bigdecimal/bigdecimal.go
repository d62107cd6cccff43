package bigdecimal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidNumber is returned for input that is not a plain decimal literal.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrDivideByZero is returned when the divisor is zero.
	ErrDivideByZero = errors.New("divide by zero")
	// ErrInvalidPrecision is returned for a negative precision.
	ErrInvalidPrecision = errors.New("invalid precision")
	// ErrRoundingNecessary is returned by the Unnecessary mode when digits would be lost.
	ErrRoundingNecessary = errors.New("rounding necessary")
)

// number is a parsed decimal: (-1)^neg * coef * 10^-scale.
type number struct {
	neg   bool
	coef  []byte
	scale int
}

func parse(s string) (number, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}

	var n number
	switch s[0] {
	case '-':
		n.neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}

	digits := make([]byte, 0, len(intPart)+len(fracPart))
	for _, part := range []string{intPart, fracPart} {
		for i := 0; i < len(part); i++ {
			c := part[i]
			if c < '0' || c > '9' {
				return number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
			}
			digits = append(digits, c-'0')
		}
	}

	n.coef = trimLeft(digits)
	n.scale = len(fracPart)
	if isZero(n.coef) {
		n.neg = false
	}
	return n, nil
}

// String renders n with exactly n.scale fractional digits.
func (n number) String() string {
	coef := padLeft(trimLeft(n.coef), n.scale+1)
	split := len(coef) - n.scale

	var b strings.Builder
	if n.neg && !isZero(coef) {
		b.WriteByte('-')
	}
	for _, d := range coef[:split] {
		b.WriteByte('0' + d)
	}
	if n.scale > 0 {
		b.WriteByte('.')
		for _, d := range coef[split:] {
			b.WriteByte('0' + d)
		}
	}
	return b.String()
}

// align brings a and b to a common scale.
func align(a, b number) (number, number) {
	switch {
	case a.scale < b.scale:
		a.coef = padRight(a.coef, b.scale-a.scale)
		a.scale = b.scale
	case b.scale < a.scale:
		b.coef = padRight(b.coef, a.scale-b.scale)
		b.scale = a.scale
	}
	return a, b
}

func sum(a, b number) number {
	a, b = align(a, b)
	if a.neg == b.neg {
		return number{neg: a.neg, coef: addMag(a.coef, b.coef), scale: a.scale}
	}
	switch cmpMag(a.coef, b.coef) {
	case 0:
		return number{coef: []byte{0}, scale: a.scale}
	case 1:
		return number{neg: a.neg, coef: subMag(a.coef, b.coef), scale: a.scale}
	default:
		return number{neg: b.neg, coef: subMag(b.coef, a.coef), scale: a.scale}
	}
}

func checkPrecision(precision int) error {
	if precision < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, precision)
	}
	return nil
}

func finish(n number, precision int, mode RoundingMode, sticky bool) (string, error) {
	r, err := roundTo(n, precision, mode, sticky)
	if err != nil {
		return "", err
	}
	if isZero(r.coef) {
		r.neg = false
	}
	return r.String(), nil
}

// Add returns a+b truncated (Down) to precision fractional digits.
func Add(a, b string, precision int) (string, error) {
	return AddRounded(a, b, precision, Down)
}

// AddRounded returns a+b rounded to precision with the given mode.
func AddRounded(a, b string, precision int, mode RoundingMode) (string, error) {
	if err := checkPrecision(precision); err != nil {
		return "", err
	}
	x, err := parse(a)
	if err != nil {
		return "", err
	}
	y, err := parse(b)
	if err != nil {
		return "", err
	}
	return finish(sum(x, y), precision, mode, false)
}

// Subtract returns a-b truncated to precision fractional digits.
func Subtract(a, b string, precision int) (string, error) {
	y, err := parse(b)
	if err != nil {
		return "", err
	}
	y.neg = !y.neg && !isZero(y.coef)
	return Add(a, y.String(), precision)
}

// Multiply returns a*b rounded to precision with mode.
func Multiply(a, b string, precision int, mode RoundingMode) (string, error) {
	if err := checkPrecision(precision); err != nil {
		return "", err
	}
	x, err := parse(a)
	if err != nil {
		return "", err
	}
	y, err := parse(b)
	if err != nil {
		return "", err
	}
	product := number{
		neg:   x.neg != y.neg,
		coef:  mulMag(x.coef, y.coef),
		scale: x.scale + y.scale,
	}
	return finish(product, precision, mode, false)
}

// Divide returns a/b rounded to precision with mode. One guard digit is
// computed beyond precision and any non-zero remainder after it is kept as a
// sticky flag, so every mode rounds as if the quotient were exact.
func Divide(a, b string, precision int, mode RoundingMode) (string, error) {
	if err := checkPrecision(precision); err != nil {
		return "", err
	}
	x, err := parse(a)
	if err != nil {
		return "", err
	}
	y, err := parse(b)
	if err != nil {
		return "", err
	}
	if isZero(y.coef) {
		return "", fmt.Errorf("%w: %s / %s", ErrDivideByZero, a, b)
	}

	// a/b = (X/Y) * 10^(sy-sx); scale the integer division so the quotient
	// carries precision+1 fractional digits.
	scale := precision + 1
	shift := y.scale - x.scale + scale
	num, den := x.coef, y.coef
	if shift >= 0 {
		num = padRight(num, shift)
	} else {
		den = padRight(den, -shift)
	}

	q, r := divMag(num, den)
	quotient := number{neg: x.neg != y.neg, coef: q, scale: scale}
	return finish(quotient, precision, mode, !isZero(r))
}

// Round rounds value to precision with mode.
func Round(value string, precision int, mode RoundingMode) (string, error) {
	if err := checkPrecision(precision); err != nil {
		return "", err
	}
	x, err := parse(value)
	if err != nil {
		return "", err
	}
	return finish(x, precision, mode, false)
}

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater than b.
func Compare(a, b string) (int, error) {
	x, err := parse(a)
	if err != nil {
		return 0, err
	}
	y, err := parse(b)
	if err != nil {
		return 0, err
	}
	d := sum(x, number{neg: !y.neg && !isZero(y.coef), coef: y.coef, scale: y.scale})
	switch {
	case isZero(d.coef):
		return 0, nil
	case d.neg:
		return -1, nil
	default:
		return 1, nil
	}
}

// Valid reports whether s parses as a decimal literal.
func Valid(s string) bool {
	_, err := parse(s)
	return err == nil
}
