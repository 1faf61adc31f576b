package orderdraft

import (
	"strings"

	"github.com/verdant-oils/storefront-backend/internal/cart"
	"github.com/verdant-oils/storefront-backend/internal/pricing"
	"github.com/verdant-oils/storefront-backend/pkg/enums"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

const (
	codTitle    = "Cash on Delivery"
	onlineTitle = "Online Payment (Razorpay)"

	shippingMethodID = "flat_rate"
	defaultCountry   = "IN"
)

// AddressInput carries the checkout form fields. All listed fields are
// required except Address2.
type AddressInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Address1  string `json:"address_1" validate:"required"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Postcode  string `json:"postcode" validate:"required"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// Input is everything needed to assemble an order payload.
type Input struct {
	Lines         []cart.Line
	Address       AddressInput
	PaymentMethod string
	Pricing       pricing.Result
	CustomerID    int
}

// Build assembles the backend order payload. It validates the address
// before anything touches the network; a missing field fails here.
func Build(input Input) (*woocommerce.OrderPayload, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := validateAddress(input.Address); err != nil {
		return nil, err
	}

	method, err := enums.ParsePaymentMethod(strings.TrimSpace(strings.ToLower(input.PaymentMethod)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").
			WithDetails(map[string]string{"payment_method": input.PaymentMethod})
	}

	country := strings.TrimSpace(input.Address.Country)
	if country == "" {
		country = defaultCountry
	}

	billing := woocommerce.Address{
		FirstName: strings.TrimSpace(input.Address.FirstName),
		LastName:  strings.TrimSpace(input.Address.LastName),
		Address1:  strings.TrimSpace(input.Address.Address1),
		Address2:  strings.TrimSpace(input.Address.Address2),
		City:      strings.TrimSpace(input.Address.City),
		State:     strings.TrimSpace(input.Address.State),
		Postcode:  strings.TrimSpace(input.Address.Postcode),
		Country:   country,
		Email:     strings.TrimSpace(input.Address.Email),
		Phone:     strings.TrimSpace(input.Address.Phone),
	}
	shipping := billing
	shipping.Email = ""
	shipping.Phone = ""

	lineItems := make([]woocommerce.LineItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			continue
		}
		// Price is never sent per line; the backend derives it from the
		// catalog. Shipping and discounts travel as separate lines.
		lineItems = append(lineItems, woocommerce.LineItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	if len(lineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart has no purchasable lines")
	}

	payload := &woocommerce.OrderPayload{
		SetPaid:    false,
		CustomerID: input.CustomerID,
		Billing:    billing,
		Shipping:   shipping,
		LineItems:  lineItems,
	}

	switch method {
	case enums.PaymentMethodCOD:
		payload.PaymentMethod = method.String()
		payload.PaymentMethodTitle = codTitle
	case enums.PaymentMethodRazorpay:
		payload.PaymentMethod = method.String()
		payload.PaymentMethodTitle = onlineTitle
		payload.Status = woocommerce.OrderStatusPending

		if input.Pricing.ShippingFee.IsPositive() {
			payload.ShippingLines = []woocommerce.ShippingLine{{
				MethodID:    shippingMethodID,
				MethodTitle: "Shipping",
				Total:       input.Pricing.ShippingFee.StringFixed(2),
			}}
		}
		if input.Pricing.BulkDiscount.IsPositive() {
			payload.FeeLines = append(payload.FeeLines, woocommerce.FeeLine{
				Name:      "Bulk Order Discount",
				Total:     input.Pricing.BulkDiscount.Neg().StringFixed(2),
				TaxStatus: "none",
			})
		}
		if input.Pricing.CouponDiscount.IsPositive() {
			payload.FeeLines = append(payload.FeeLines, woocommerce.FeeLine{
				Name:      "Coupon Discount",
				Total:     input.Pricing.CouponDiscount.Neg().StringFixed(2),
				TaxStatus: "none",
			})
		}
	}

	return payload, nil
}

func validateAddress(addr AddressInput) error {
	missing := []string{}
	required := []struct {
		field string
		value string
	}{
		{"first_name", addr.FirstName},
		{"last_name", addr.LastName},
		{"address_1", addr.Address1},
		{"city", addr.City},
		{"state", addr.State},
		{"postcode", addr.Postcode},
		{"phone", addr.Phone},
		{"email", addr.Email},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			missing = append(missing, req.field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required address fields").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}
