package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/verdant-oils/storefront-backend/api/responses"
	"github.com/verdant-oils/storefront-backend/api/validators"
	"github.com/verdant-oils/storefront-backend/internal/cart"
	"github.com/verdant-oils/storefront-backend/internal/pricing"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
)

type cartQuoteRequest struct {
	Lines  []cart.Line `json:"lines" validate:"required,min=1"`
	Coupon string      `json:"coupon"`
}

type cartQuoteResponse struct {
	pricing.Result
	AmountMinorUnits int64 `json:"amount_minor_units"`
	ItemCount        int   `json:"item_count"`
}

// CartQuote prices a cart snapshot without persisting anything.
func CartQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot := cart.FromLines(req.Lines)
		result := pricing.Quote(snapshot.Lines(), req.Coupon)
		responses.WriteSuccess(w, cartQuoteResponse{
			Result:           result,
			AmountMinorUnits: result.AmountMinorUnits(),
			ItemCount:        snapshot.ItemCount(),
		})
	}
}

type cartSaveRequest struct {
	Lines []cart.Line `json:"lines" validate:"required"`
}

type cartResponse struct {
	SessionID string      `json:"session_id"`
	Lines     []cart.Line `json:"lines"`
	ItemCount int         `json:"item_count"`
}

func sessionIDParam(r *http.Request) (string, error) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	return sessionID, nil
}

// CartFetch loads the persisted cart; an unknown session is an empty cart.
func CartFetch(store *cart.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := store.Load(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{
			SessionID: sessionID,
			Lines:     snapshot.Lines(),
			ItemCount: snapshot.ItemCount(),
		})
	}
}

// CartSave replaces the persisted cart with the supplied snapshot.
func CartSave(store *cart.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req cartSaveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot := cart.FromLines(req.Lines)
		if err := store.Save(r.Context(), sessionID, snapshot); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{
			SessionID: sessionID,
			Lines:     snapshot.Lines(),
			ItemCount: snapshot.ItemCount(),
		})
	}
}

// CartDelete drops the persisted cart.
func CartDelete(store *cart.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Delete(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
