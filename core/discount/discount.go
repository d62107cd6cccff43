package discount

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"bling-sync/core/appmath"
	"bling-sync/core/bigdecimal"

	"github.com/shopspring/decimal"
)

// ErrPrecision is returned when an amount carries more fractional digits
// than money is stored with.
var ErrPrecision = errors.New("amount exceeds money precision")

// Line is the allocator's view of an order line.
type Line struct {
	// ExternalID orders lines deterministically; the last line absorbs the remainder.
	ExternalID string
	// Subtotal is the line amount before the order-level discount.
	Subtotal decimal.Decimal
	// DiscountAmount accumulates the portion of the order discount given to this line.
	DiscountAmount decimal.Decimal
	// DiscountPercent is DiscountAmount relative to Subtotal, in percent.
	DiscountPercent decimal.Decimal
	// Total is Subtotal minus DiscountAmount.
	Total decimal.Decimal
}

// Totals summarizes a distribution.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
}

// FromPercent converts an order-level percentage into an absolute amount.
func FromPercent(percent, gross decimal.Decimal) (decimal.Decimal, error) {
	rate, err := appmath.Divide(percent, decimal.NewFromInt(100), 10, bigdecimal.HalfUp)
	if err != nil {
		return decimal.Zero, err
	}
	return appmath.Multiply(rate, gross, appmath.MoneyPrecision, bigdecimal.HalfUp)
}

// SortLines orders lines by external id, numerically when both ids are integers.
func SortLines(lines []*Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lessID(lines[i].ExternalID, lines[j].ExternalID)
	})
}

func lessID(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}

// checkPrecision rejects amounts the cent-truncating sums would cut down.
func checkPrecision(what string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(appmath.MoneyPrecision)) {
		return fmt.Errorf("%s %s: %w", what, v, ErrPrecision)
	}
	return nil
}

// Distribute spreads discount across lines proportionally to their subtotal.
// Lines are sorted by external id in place; every line but the last receives
// divide(line.Subtotal, subtotal, 2) * discount, clamped to what is left, and
// the last line receives exactly the remainder. A zero subtotal leaves nothing
// to proportion against, so the last line takes the whole discount. Amounts
// with sub-cent digits fail with ErrPrecision.
func Distribute(lines []*Line, discount, subtotal decimal.Decimal) (Totals, error) {
	totals := Totals{Subtotal: subtotal, Net: subtotal}
	if len(lines) == 0 || !discount.IsPositive() {
		return totals, nil
	}

	if err := checkPrecision("discount", discount); err != nil {
		return Totals{}, err
	}
	if err := checkPrecision("subtotal", subtotal); err != nil {
		return Totals{}, err
	}
	for _, l := range lines {
		if err := checkPrecision("line "+l.ExternalID+" subtotal", l.Subtotal); err != nil {
			return Totals{}, err
		}
	}

	SortLines(lines)

	remaining := discount
	for i, l := range lines {
		var portion decimal.Decimal
		switch {
		case i == len(lines)-1:
			portion = remaining
		case subtotal.IsZero():
			portion = decimal.Zero
		default:
			share, err := appmath.Divide(l.Subtotal, subtotal, 2, bigdecimal.HalfUp)
			if err != nil {
				return Totals{}, fmt.Errorf("line %s share: %w", l.ExternalID, err)
			}
			portion, err = appmath.Multiply(discount, share, 2, bigdecimal.HalfUp)
			if err != nil {
				return Totals{}, fmt.Errorf("line %s portion: %w", l.ExternalID, err)
			}
			if portion.GreaterThan(remaining) {
				portion = remaining
			}
		}

		remaining = appmath.Sum(remaining, portion.Neg())
		l.DiscountAmount = appmath.Sum(l.DiscountAmount, portion)
		pct, err := appmath.Percent(l.DiscountAmount, l.Subtotal)
		if err != nil {
			return Totals{}, fmt.Errorf("line %s percent: %w", l.ExternalID, err)
		}
		l.DiscountPercent = pct
		l.Total = appmath.Sum(l.Subtotal, l.DiscountAmount.Neg())

		totals.Discount = appmath.Sum(totals.Discount, portion)
		totals.Net = appmath.Sum(totals.Net, portion.Neg())
	}

	return totals, nil
}
