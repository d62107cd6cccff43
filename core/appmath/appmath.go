package appmath

import (
	"fmt"

	"bling-sync/core/bigdecimal"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of fractional digits used when a call site
// does not ask for a specific precision.
const DefaultPrecision = 4

// MoneyPrecision is the number of fractional digits stored for amounts.
const MoneyPrecision = 2

var hundred = decimal.NewFromInt(100)

// fromString converts engine output back into the carrier type. The engine
// only ever produces plain literals, so a failure here is a programming error.
func fromString(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// str renders d without exponent notation.
func str(d decimal.Decimal) string {
	return d.String()
}

// Sum adds values truncating every partial sum to MoneyPrecision.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	return SumP(MoneyPrecision, values...)
}

// SumP adds values truncating every partial sum to precision.
func SumP(precision int, values ...decimal.Decimal) decimal.Decimal {
	acc := "0"
	for _, v := range values {
		next, err := bigdecimal.Add(acc, str(v), precision)
		if err != nil {
			panic(fmt.Sprintf("appmath: sum: %v", err))
		}
		acc = next
	}
	r, err := bigdecimal.Round(acc, precision, bigdecimal.Down)
	if err != nil {
		panic(fmt.Sprintf("appmath: sum: %v", err))
	}
	return fromString(r)
}

// Multiply returns a*b rounded to precision with mode.
func Multiply(a, b decimal.Decimal, precision int, mode bigdecimal.RoundingMode) (decimal.Decimal, error) {
	r, err := bigdecimal.Multiply(str(a), str(b), precision, mode)
	if err != nil {
		return decimal.Zero, err
	}
	return fromString(r), nil
}

// Divide returns a/b rounded to precision with mode.
func Divide(a, b decimal.Decimal, precision int, mode bigdecimal.RoundingMode) (decimal.Decimal, error) {
	r, err := bigdecimal.Divide(str(a), str(b), precision, mode)
	if err != nil {
		return decimal.Zero, err
	}
	return fromString(r), nil
}

// Round rounds v to precision with mode.
func Round(v decimal.Decimal, precision int, mode bigdecimal.RoundingMode) (decimal.Decimal, error) {
	r, err := bigdecimal.Round(str(v), precision, mode)
	if err != nil {
		return decimal.Zero, err
	}
	return fromString(r), nil
}

// Truncate drops every digit beyond precision.
func Truncate(v decimal.Decimal, precision int) decimal.Decimal {
	r, err := Round(v, precision, bigdecimal.Down)
	if err != nil {
		panic(fmt.Sprintf("appmath: truncate: %v", err))
	}
	return r
}

// RemoveAddedPercentual reverses a rate that was added on top of a value:
// total / (1 + rate), truncated to precision. RemoveAddedPercentual(110, 0.1) == 100.
func RemoveAddedPercentual(total, rate decimal.Decimal, precision int) (decimal.Decimal, error) {
	base := SumP(DefaultPrecision+4, decimal.NewFromInt(1), rate)
	q, err := Divide(total, base, precision, bigdecimal.Down)
	if err != nil {
		return decimal.Zero, fmt.Errorf("remove added percentual: %w", err)
	}
	return q, nil
}

// Percent expresses part as a percentage of whole with two decimals:
// round(divide(part, whole, 4) * 100, 2). A zero whole yields zero.
func Percent(part, whole decimal.Decimal) (decimal.Decimal, error) {
	if whole.IsZero() {
		return decimal.Zero, nil
	}
	ratio, err := Divide(part, whole, 4, bigdecimal.HalfUp)
	if err != nil {
		return decimal.Zero, err
	}
	return Multiply(ratio, hundred, 2, bigdecimal.HalfUp)
}
