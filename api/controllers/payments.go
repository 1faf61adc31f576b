package controllers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/verdant-oils/storefront-backend/internal/payments"
	"github.com/verdant-oils/storefront-backend/pkg/config"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
)

// Error codes surfaced to the payment result views.
const (
	callbackErrMissingDetails   = "missing_details"
	callbackErrInvalidSignature = "invalid_signature"
	callbackErrServer           = "server_error"
)

// RazorpayCallback receives the gateway's form-encoded payment
// notification and answers with a 303 redirect to the storefront's
// success or error view. Browsers arrive here straight from the hosted
// widget, so the response must be a navigation, not JSON.
func RazorpayCallback(paymentsSvc payments.Service, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, cfg, callbackErrMissingDetails)
			return
		}

		orderID, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("order_id")))
		if err != nil || orderID <= 0 {
			redirectError(w, r, cfg, callbackErrMissingDetails)
			return
		}

		cb := payments.Callback{
			OrderID:        orderID,
			PaymentID:      strings.TrimSpace(r.PostFormValue("razorpay_payment_id")),
			GatewayOrderID: strings.TrimSpace(r.PostFormValue("razorpay_order_id")),
			Signature:      strings.TrimSpace(r.PostFormValue("razorpay_signature")),
		}

		order, err := paymentsSvc.HandleCallback(r.Context(), cb)
		if err != nil {
			logg.Error(r.Context(), "payment callback failed", err)
			redirectError(w, r, cfg, callbackErrorCode(err))
			return
		}

		target, appendErr := appendQuery(cfg.SuccessRedirectURL, url.Values{
			"order_id":  []string{strconv.Itoa(order.ID)},
			"order_key": []string{order.OrderKey},
		})
		if appendErr != nil {
			redirectError(w, r, cfg, callbackErrServer)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func callbackErrorCode(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return callbackErrServer
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return callbackErrMissingDetails
	case pkgerrors.CodeSignature:
		return callbackErrInvalidSignature
	default:
		return callbackErrServer
	}
}

func redirectError(w http.ResponseWriter, r *http.Request, cfg config.CheckoutConfig, code string) {
	target, err := appendQuery(cfg.ErrorRedirectURL, url.Values{"error": []string{code}})
	if err != nil {
		http.Error(w, "payment processing failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func appendQuery(base string, extra url.Values) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	for key, values := range extra {
		for _, value := range values {
			query.Set(key, value)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
