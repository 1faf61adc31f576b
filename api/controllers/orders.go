package controllers

import (
	"net/http"

	"github.com/verdant-oils/storefront-backend/api/middleware"
	"github.com/verdant-oils/storefront-backend/api/responses"
	"github.com/verdant-oils/storefront-backend/api/validators"
	"github.com/verdant-oils/storefront-backend/internal/customers"
	"github.com/verdant-oils/storefront-backend/internal/orders"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
)

type trackOrderRequest struct {
	OrderID int    `json:"order_id" validate:"required,min=1"`
	Email   string `json:"email" validate:"required,email"`
}

// TrackOrder is the guest tracking endpoint: order id plus the billing
// email stand in for authentication.
func TrackOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Track(r.Context(), req.OrderID, req.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AccountOrders lists the authenticated customer's order history.
func AccountOrders(resolver customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := middleware.CustomerIDFromContext(r.Context())
		if customerID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		history, err := resolver.Orders(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
