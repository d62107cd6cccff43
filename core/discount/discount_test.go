package discount_test

import (
	"math/rand"
	"strconv"
	"testing"

	"bling-sync/core/discount"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sumOf(lines []*discount.Line, pick func(*discount.Line) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(pick(l))
	}
	return total
}

func TestDistribute_OrderScenario(t *testing.T) {
	// 10.00 x 2, 7.50 x 1, 5.00 x 4 with a 10% order discount.
	lines := []*discount.Line{
		{ExternalID: "3", Subtotal: d("20.00")},
		{ExternalID: "1", Subtotal: d("20.00")},
		{ExternalID: "2", Subtotal: d("7.50")},
	}
	subtotal := d("47.50")

	amount, err := discount.FromPercent(d("10"), subtotal)
	require.NoError(t, err)
	assert.Equal(t, "4.75", amount.StringFixed(2))

	totals, err := discount.Distribute(lines, amount, subtotal)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, []string{lines[0].ExternalID, lines[1].ExternalID, lines[2].ExternalID})
	assert.Equal(t, "2.00", lines[0].DiscountAmount.StringFixed(2))
	assert.Equal(t, "0.76", lines[1].DiscountAmount.StringFixed(2))
	assert.Equal(t, "1.99", lines[2].DiscountAmount.StringFixed(2))
	assert.Equal(t, "10.00", lines[0].DiscountPercent.StringFixed(2))

	assert.Equal(t, "42.75", sumOf(lines, func(l *discount.Line) decimal.Decimal { return l.Total }).StringFixed(2))
	assert.Equal(t, "4.75", totals.Discount.StringFixed(2))
	assert.Equal(t, "42.75", totals.Net.StringFixed(2))
}

func TestDistribute_RejectsSubCentAmounts(t *testing.T) {
	tests := []struct {
		name     string
		discount string
		subtotal string
		lines    []string
		wantErr  bool
	}{
		{"cent exact", "1.00", "10.00", []string{"4.00", "6.00"}, false},
		{"trailing zeros", "1.000", "10.0000", []string{"4.000", "6.00"}, false},
		{"sub-cent discount", "1.005", "10.00", []string{"4.00", "6.00"}, true},
		{"sub-cent subtotal", "1.00", "10.001", []string{"4.00", "6.001"}, true},
		{"sub-cent line", "1.00", "10.00", []string{"4.004", "5.996"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]*discount.Line, len(tt.lines))
			for i, sub := range tt.lines {
				lines[i] = &discount.Line{ExternalID: strconv.Itoa(i + 1), Subtotal: d(sub)}
			}

			totals, err := discount.Distribute(lines, d(tt.discount), d(tt.subtotal))
			if tt.wantErr {
				assert.ErrorIs(t, err, discount.ErrPrecision)
				for _, l := range lines {
					assert.True(t, l.DiscountAmount.IsZero())
				}
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.discount).Equal(totals.Discount))
			assert.True(t, d(tt.discount).Equal(sumOf(lines, func(l *discount.Line) decimal.Decimal { return l.DiscountAmount })))
		})
	}
}

func TestDistribute_NoOp(t *testing.T) {
	lines := []*discount.Line{{ExternalID: "1", Subtotal: d("10"), Total: d("10")}}

	totals, err := discount.Distribute(lines, decimal.Zero, d("10"))
	require.NoError(t, err)
	assert.True(t, lines[0].DiscountAmount.IsZero())
	assert.True(t, totals.Net.Equal(d("10")))

	_, err = discount.Distribute(lines, d("-1"), d("10"))
	require.NoError(t, err)
	assert.True(t, lines[0].DiscountAmount.IsZero())

	totals, err = discount.Distribute(nil, d("5"), d("10"))
	require.NoError(t, err)
	assert.True(t, totals.Discount.IsZero())
}

func TestDistribute_ZeroSubtotal(t *testing.T) {
	lines := []*discount.Line{
		{ExternalID: "20", Subtotal: decimal.Zero},
		{ExternalID: "10", Subtotal: decimal.Zero},
	}

	_, err := discount.Distribute(lines, d("3.00"), decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "10", lines[0].ExternalID)
	assert.True(t, lines[0].DiscountAmount.IsZero())
	assert.Equal(t, "3.00", lines[1].DiscountAmount.StringFixed(2))
	assert.Equal(t, "-3.00", lines[1].Total.StringFixed(2))
	assert.True(t, lines[1].DiscountPercent.IsZero())
}

func TestDistribute_ClampsToRemaining(t *testing.T) {
	// A one cent discount rounds to zero for every line but the last.
	lines := []*discount.Line{
		{ExternalID: "1", Subtotal: d("1.00")},
		{ExternalID: "2", Subtotal: d("1.00")},
		{ExternalID: "3", Subtotal: d("1.00")},
	}
	_, err := discount.Distribute(lines, d("0.01"), d("3.00"))
	require.NoError(t, err)

	assert.Equal(t, "0.01", sumOf(lines, func(l *discount.Line) decimal.Decimal { return l.DiscountAmount }).StringFixed(2))
	for _, l := range lines {
		assert.False(t, l.DiscountAmount.IsNegative())
	}
}

func TestDistribute_ExactForRandomOrders(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		n := 1 + r.Intn(8)
		lines := make([]*discount.Line, n)
		subtotal := decimal.Zero
		for j := range lines {
			cents := decimal.New(int64(1+r.Intn(100000)), -2)
			lines[j] = &discount.Line{ExternalID: strconv.Itoa(r.Intn(1000000)), Subtotal: cents}
			subtotal = subtotal.Add(cents)
		}
		disc := decimal.New(r.Int63n(subtotal.Shift(2).IntPart()+1), -2)

		_, err := discount.Distribute(lines, disc, subtotal)
		require.NoError(t, err)

		assert.True(t, disc.Equal(sumOf(lines, func(l *discount.Line) decimal.Decimal { return l.DiscountAmount })),
			"discount %s over %s", disc, subtotal)
		assert.True(t, subtotal.Sub(disc).Equal(sumOf(lines, func(l *discount.Line) decimal.Decimal { return l.Total })),
			"net for discount %s over %s", disc, subtotal)
	}
}

func TestSortLines(t *testing.T) {
	lines := []*discount.Line{{ExternalID: "100"}, {ExternalID: "9"}, {ExternalID: "b"}, {ExternalID: "a"}}
	discount.SortLines(lines)

	var ids []string
	for _, l := range lines {
		ids = append(ids, l.ExternalID)
	}
	assert.Equal(t, "9", ids[0])
	assert.Equal(t, "100", ids[1])
}
