package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/verdant-oils/storefront-backend/internal/cart"
)

func lines(priceQty ...string) []cart.Line {
	out := make([]cart.Line, 0, len(priceQty)/2)
	for i := 0; i+1 < len(priceQty); i += 2 {
		out = append(out, cart.Line{
			ProductID: i + 1,
			Name:      "Oil",
			UnitPrice: decimal.RequireFromString(priceQty[i]),
			Quantity:  mustAtoi(priceQty[i+1]),
		})
	}
	return out
}

func mustAtoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestQuoteBelowFreeShippingThreshold(t *testing.T) {
	t.Parallel()

	// two bottles at 400: subtotal 800, flat shipping, no bulk discount
	res := Quote(lines("400", "2"), "")
	requireAmount(t, "800", res.Subtotal)
	requireAmount(t, "50", res.ShippingFee)
	requireAmount(t, "0", res.BulkDiscount)
	requireAmount(t, "850", res.GrandTotal)
	require.Equal(t, int64(85000), res.AmountMinorUnits())
}

func TestQuoteFreeShippingNoBulkDiscount(t *testing.T) {
	t.Parallel()

	res := Quote(lines("1200", "1"), "")
	requireAmount(t, "1200", res.Subtotal)
	requireAmount(t, "0", res.ShippingFee)
	requireAmount(t, "0", res.BulkDiscount)
	requireAmount(t, "1200", res.GrandTotal)
}

func TestQuoteBulkDiscountApplies(t *testing.T) {
	t.Parallel()

	res := Quote(lines("1600", "1"), "")
	requireAmount(t, "0", res.ShippingFee)
	requireAmount(t, "100", res.BulkDiscount)
	requireAmount(t, "1500", res.GrandTotal)
}

func TestQuoteValidCoupon(t *testing.T) {
	t.Parallel()

	res := Quote(lines("1600", "1"), "TEAT01")
	require.True(t, res.CouponApplied)
	require.False(t, res.CouponInvalid)
	requireAmount(t, "50", res.CouponDiscount)
	requireAmount(t, "1450", res.GrandTotal)
}

func TestQuoteCouponIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	res := Quote(lines("400", "2"), "teat01")
	require.True(t, res.CouponApplied)
	requireAmount(t, "800", res.GrandTotal)
}

func TestQuoteInvalidCouponFlagsWithoutDiscount(t *testing.T) {
	t.Parallel()

	res := Quote(lines("400", "2"), "SAVE99")
	require.False(t, res.CouponApplied)
	require.True(t, res.CouponInvalid)
	requireAmount(t, "0", res.CouponDiscount)
	requireAmount(t, "850", res.GrandTotal)
}

func TestQuoteEmptyCouponRaisesNoFlag(t *testing.T) {
	t.Parallel()

	res := Quote(lines("400", "2"), "  ")
	require.False(t, res.CouponApplied)
	require.False(t, res.CouponInvalid)
}

func TestQuoteThresholdBoundaries(t *testing.T) {
	t.Parallel()

	// exactly 999 still pays shipping; the rule is strictly greater
	res := Quote(lines("999", "1"), "")
	requireAmount(t, "50", res.ShippingFee)

	res = Quote(lines("999.01", "1"), "")
	requireAmount(t, "0", res.ShippingFee)

	// exactly 1500 earns no bulk discount
	res = Quote(lines("1500", "1"), "")
	requireAmount(t, "0", res.BulkDiscount)

	res = Quote(lines("1500.01", "1"), "")
	requireAmount(t, "100", res.BulkDiscount)
}

func TestQuoteGrandTotalNeverNegative(t *testing.T) {
	t.Parallel()

	// tiny cart with a valid coupon: 10 + 50 shipping - 50 coupon = 10,
	// an even smaller one floors at zero
	res := Quote(lines("10", "1"), "TEAT01")
	requireAmount(t, "10", res.GrandTotal)

	res = Quote([]cart.Line{}, "TEAT01")
	require.False(t, res.GrandTotal.IsNegative())
	requireAmount(t, "0", res.GrandTotal)
}

func TestQuoteIsIdempotent(t *testing.T) {
	t.Parallel()

	input := lines("449.50", "3")
	first := Quote(input, "TEAT01")
	second := Quote(input, "TEAT01")
	require.Equal(t, first, second)
}

func TestQuoteSkipsNonPositiveQuantities(t *testing.T) {
	t.Parallel()

	input := []cart.Line{
		{ProductID: 1, Name: "Oil", UnitPrice: decimal.NewFromInt(400), Quantity: 2},
		{ProductID: 2, Name: "Oil", UnitPrice: decimal.NewFromInt(5000), Quantity: 0},
	}
	res := Quote(input, "")
	requireAmount(t, "800", res.Subtotal)
}

func TestAmountMinorUnitsHasNoFloatDrift(t *testing.T) {
	t.Parallel()

	res := Quote(lines("439.99", "3"), "")
	// 1319.97 subtotal, free shipping: 131997 paise exactly
	require.Equal(t, int64(131997), res.AmountMinorUnits())
}
