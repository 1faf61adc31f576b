package controllers

import (
	"net/http"
	"strings"

	"github.com/verdant-oils/storefront-backend/api/middleware"
	"github.com/verdant-oils/storefront-backend/api/responses"
	"github.com/verdant-oils/storefront-backend/api/validators"
	"github.com/verdant-oils/storefront-backend/internal/cart"
	"github.com/verdant-oils/storefront-backend/internal/orderdraft"
	"github.com/verdant-oils/storefront-backend/internal/payments"
	"github.com/verdant-oils/storefront-backend/internal/pricing"
	"github.com/verdant-oils/storefront-backend/pkg/config"
	"github.com/verdant-oils/storefront-backend/pkg/enums"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	Lines         []cart.Line            `json:"lines" validate:"required,min=1"`
	Address       orderdraft.AddressInput `json:"address" validate:"required"`
	PaymentMethod string                 `json:"payment_method" validate:"required"`
	Coupon        string                 `json:"coupon"`
	SessionID     string                 `json:"session_id"`
}

type checkoutResponse struct {
	payments.Outcome
	Pricing pricing.Result `json:"pricing"`
}

// Checkout prices the cart server-side, creates the pending order, and
// for online payment returns the gateway session. The client's own
// totals are never trusted.
func Checkout(paymentsSvc payments.Service, cartStore *cart.SessionStore, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method := strings.TrimSpace(strings.ToLower(req.PaymentMethod))
		if method == enums.PaymentMethodCOD.String() && !cfg.Checkout.AllowCOD {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cash on delivery is not available"))
			return
		}

		snapshot := cart.FromLines(req.Lines)
		quote := pricing.Quote(snapshot.Lines(), req.Coupon)
		if quote.CouponInvalid {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code"))
			return
		}

		draft, err := orderdraft.Build(orderdraft.Input{
			Lines:         snapshot.Lines(),
			Address:       req.Address,
			PaymentMethod: method,
			Pricing:       quote,
			CustomerID:    middleware.CustomerIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := paymentsSvc.StartCheckout(r.Context(), *draft)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if sessionID := strings.TrimSpace(req.SessionID); sessionID != "" && cartStore != nil {
			// The order exists; a stale cart is not worth failing over.
			if err := cartStore.Delete(r.Context(), sessionID); err != nil {
				logg.Warn(logg.WithField(r.Context(), "cart_session", sessionID), "failed to clear cart after checkout")
			}
		}

		responses.WriteSuccess(w, checkoutResponse{Outcome: *outcome, Pricing: quote})
	}
}
