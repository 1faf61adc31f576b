package payments

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/verdant-oils/storefront-backend/pkg/config"
	"github.com/verdant-oils/storefront-backend/pkg/enums"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
	"github.com/verdant-oils/storefront-backend/pkg/razorpay"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

// Meta keys stamped on the order when payment is finalized.
const (
	metaPaymentID      = "_razorpay_payment_id"
	metaGatewayOrderID = "_razorpay_order_id"
	metaSignature      = "_razorpay_signature"
)

type commerceClient interface {
	CreateOrder(ctx context.Context, payload woocommerce.OrderPayload) (*woocommerce.Order, error)
	GetOrder(ctx context.Context, orderID int) (*woocommerce.Order, error)
	UpdateOrder(ctx context.Context, orderID int, update woocommerce.OrderUpdate) (*woocommerce.Order, error)
}

type gatewayClient interface {
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.GatewayOrder, error)
	KeyID() string
	SigningSecret() string
}

// Session carries everything the hosted payment widget needs.
type Session struct {
	KeyID            string  `json:"key_id"`
	GatewayOrderID   string  `json:"gateway_order_id"`
	AmountMinorUnits int64   `json:"amount"`
	Currency         string  `json:"currency"`
	CallbackURL      string  `json:"callback_url"`
	Prefill          Prefill `json:"prefill"`
}

// Prefill pre-populates the widget's contact fields.
type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Outcome is the result of starting a checkout. Session is nil for
// cash on delivery; the order is confirmed as soon as it is created.
type Outcome struct {
	Order   *woocommerce.Order `json:"order"`
	Session *Session           `json:"session,omitempty"`
}

// Callback is the gateway's payment notification, form fields plus the
// order id carried on the callback URL.
type Callback struct {
	OrderID        int
	PaymentID      string
	GatewayOrderID string
	Signature      string
}

// Service drives the payment flow: pending order, gateway order,
// signature-verified callback, finalization.
type Service interface {
	StartCheckout(ctx context.Context, draft woocommerce.OrderPayload) (*Outcome, error)
	HandleCallback(ctx context.Context, cb Callback) (*woocommerce.Order, error)
}

type service struct {
	commerce commerceClient
	gateway  gatewayClient
	log      *logger.Logger
	cfg      config.CheckoutConfig
	now      func() time.Time
}

// NewService builds the payment orchestrator.
func NewService(commerce commerceClient, gateway gatewayClient, log *logger.Logger, cfg config.CheckoutConfig) (Service, error) {
	if commerce == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "commerce client required")
	}
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway client required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	if strings.TrimSpace(cfg.CallbackBaseURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "callback base url required")
	}
	return &service{
		commerce: commerce,
		gateway:  gateway,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// StartCheckout runs the linear, non-retrying sequence: create the
// pending order, then the gateway order. A gateway failure leaves the
// pending order behind; it is logged for reconciliation, never rolled
// back here.
func (s *service) StartCheckout(ctx context.Context, draft woocommerce.OrderPayload) (*Outcome, error) {
	order, err := s.commerce.CreateOrder(ctx, draft)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order").
			WithDetails(map[string]string{"step": "order-creation"})
	}
	if order == nil || order.ID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order record missing id").
			WithDetails(map[string]string{"step": "order-creation"})
	}

	ctx = s.log.WithOrderID(ctx, order.ID)
	s.log.Info(ctx, "order created")

	if draft.PaymentMethod == enums.PaymentMethodCOD.String() {
		return &Outcome{Order: order}, nil
	}

	amount, err := amountMinorUnits(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse order total").
			WithDetails(map[string]string{"step": "gateway-order"})
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		AmountMinorUnits: amount,
		Currency:         s.cfg.Currency,
		Receipt:          fmt.Sprintf("order_%d", order.ID),
		Notes: map[string]string{
			"store_order_id":  strconv.Itoa(order.ID),
			"store_order_key": order.OrderKey,
		},
	})
	if err != nil {
		// The pending order stays behind as an orphan; surfaced in the
		// logs so reconciliation can pick it up.
		s.log.Error(ctx, "gateway order failed, pending order orphaned", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "create gateway order").
			WithDetails(map[string]string{"step": "gateway-order"})
	}

	return &Outcome{
		Order: order,
		Session: &Session{
			KeyID:            s.gateway.KeyID(),
			GatewayOrderID:   gatewayOrder.ID,
			AmountMinorUnits: gatewayOrder.AmountMinorUnits,
			Currency:         gatewayOrder.Currency,
			CallbackURL:      s.callbackURL(order.ID),
			Prefill: Prefill{
				Name:    strings.TrimSpace(order.Billing.FirstName + " " + order.Billing.LastName),
				Email:   order.Billing.Email,
				Contact: order.Billing.Phone,
			},
		},
	}, nil
}

// HandleCallback verifies the gateway's signature and marks the order
// paid. Re-delivery of a callback for an already-paid order with the
// same transaction id succeeds without touching the order again.
func (s *service) HandleCallback(ctx context.Context, cb Callback) (*woocommerce.Order, error) {
	if cb.OrderID <= 0 || cb.PaymentID == "" || cb.GatewayOrderID == "" || cb.Signature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing payment details")
	}
	ctx = s.log.WithOrderID(ctx, cb.OrderID)

	order, err := s.commerce.GetOrder(ctx, cb.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch order")
	}
	if order.Paid() && order.TransactionID == cb.PaymentID {
		s.log.Info(ctx, "callback re-delivered for paid order")
		return order, nil
	}

	if !razorpay.VerifySignature(s.gateway.SigningSecret(), cb.GatewayOrderID, cb.PaymentID, cb.Signature) {
		s.log.Warn(ctx, "payment signature mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeSignature, "signature mismatch")
	}

	updated, err := s.commerce.UpdateOrder(ctx, cb.OrderID, woocommerce.OrderUpdate{
		Status:        woocommerce.OrderStatusProcessing,
		SetPaid:       true,
		TransactionID: cb.PaymentID,
		DatePaid:      s.now().UTC().Format(time.RFC3339),
		MetaData: []woocommerce.MetaEntry{
			{Key: metaPaymentID, Value: cb.PaymentID},
			{Key: metaGatewayOrderID, Value: cb.GatewayOrderID},
			{Key: metaSignature, Value: cb.Signature},
		},
	})
	if err != nil {
		// Money has moved but the order still says pending. This is the
		// one failure that must stand out in the logs.
		s.log.Error(ctx, "payment verified but order update failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeReconciliation, err, "finalize paid order").
			WithDetails(map[string]string{"payment_id": cb.PaymentID})
	}

	s.log.Info(ctx, "payment captured")
	return updated, nil
}

func (s *service) callbackURL(orderID int) string {
	base := strings.TrimRight(s.cfg.CallbackBaseURL, "/")
	return base + "?order_id=" + url.QueryEscape(strconv.Itoa(orderID))
}

// amountMinorUnits converts the order total to paise, rounding to the
// nearest unit so string totals like "439.99" survive exactly.
func amountMinorUnits(order *woocommerce.Order) (int64, error) {
	total, err := order.TotalDecimal()
	if err != nil {
		return 0, err
	}
	return total.Shift(2).Round(0).IntPart(), nil
}
