package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/verdant-oils/storefront-backend/internal/cart"
)

// Store pricing policy. The thresholds and amounts are business policy
// and intentionally live here, not in configuration.
var (
	freeShippingThreshold = decimal.NewFromInt(999)
	flatShippingFee       = decimal.NewFromInt(50)
	bulkDiscountThreshold = decimal.NewFromInt(1500)
	bulkDiscountAmount    = decimal.NewFromInt(100)
	couponDiscountAmount  = decimal.NewFromInt(50)
)

// couponCode is the single accepted code. There is no coupon service
// behind this; the literal is the entire campaign.
const couponCode = "TEAT01"

// Result is the priced view of a cart. Derived on every call, never stored.
type Result struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	BulkDiscount   decimal.Decimal `json:"bulk_discount"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	CouponApplied  bool            `json:"coupon_applied"`
	CouponInvalid  bool            `json:"coupon_invalid"`
}

// AmountMinorUnits returns the grand total in minor currency units
// (paise), rounded half away from zero. The gateway order amount must
// equal this exactly.
func (r Result) AmountMinorUnits() int64 {
	return r.GrandTotal.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Quote prices the cart lines with an optional coupon code. Pure and
// deterministic: identical inputs always produce identical results.
//
// An unknown coupon is not an error; the result flags it invalid and no
// discount applies.
func Quote(lines []cart.Line, coupon string) Result {
	res := Result{
		Subtotal:       decimal.Zero,
		ShippingFee:    decimal.Zero,
		BulkDiscount:   decimal.Zero,
		CouponDiscount: decimal.Zero,
	}

	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		res.Subtotal = res.Subtotal.Add(line.Subtotal())
	}

	if !res.Subtotal.GreaterThan(freeShippingThreshold) {
		res.ShippingFee = flatShippingFee
	}
	if res.Subtotal.GreaterThan(bulkDiscountThreshold) {
		res.BulkDiscount = bulkDiscountAmount
	}

	if trimmed := strings.TrimSpace(coupon); trimmed != "" {
		if strings.EqualFold(trimmed, couponCode) {
			res.CouponDiscount = couponDiscountAmount
			res.CouponApplied = true
		} else {
			res.CouponInvalid = true
		}
	}

	res.GrandTotal = res.Subtotal.
		Add(res.ShippingFee).
		Sub(res.BulkDiscount).
		Sub(res.CouponDiscount)
	if res.GrandTotal.IsNegative() {
		res.GrandTotal = decimal.Zero
	}

	return res
}
