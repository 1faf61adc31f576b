package payments

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-oils/storefront-backend/pkg/config"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
	"github.com/verdant-oils/storefront-backend/pkg/razorpay"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

const testSecret = "test_secret"

type fakeCommerce struct {
	orders      map[int]*woocommerce.Order
	nextID      int
	createErr   error
	updateErr   error
	created     []woocommerce.OrderPayload
	updates     []woocommerce.OrderUpdate
	updateCalls int
}

func (f *fakeCommerce) CreateOrder(_ context.Context, payload woocommerce.OrderPayload) (*woocommerce.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, payload)
	f.nextID++
	order := &woocommerce.Order{
		ID:       f.nextID,
		OrderKey: "wc_order_key",
		Status:   woocommerce.OrderStatusPending,
		Total:    "1250.00",
		Billing:  payload.Billing,
	}
	if f.orders == nil {
		f.orders = map[int]*woocommerce.Order{}
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeCommerce) GetOrder(_ context.Context, orderID int) (*woocommerce.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (f *fakeCommerce) UpdateOrder(_ context.Context, orderID int, update woocommerce.OrderUpdate) (*woocommerce.Order, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, update)
	order := f.orders[orderID]
	order.Status = update.Status
	order.TransactionID = update.TransactionID
	order.DatePaid = update.DatePaid
	return order, nil
}

type fakeGateway struct {
	createErr error
	created   []razorpay.OrderCreateParams
}

func (f *fakeGateway) CreateOrder(_ context.Context, params razorpay.OrderCreateParams) (*razorpay.GatewayOrder, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, params)
	return &razorpay.GatewayOrder{
		ID:               "order_Gw123",
		AmountMinorUnits: params.AmountMinorUnits,
		Currency:         params.Currency,
		Receipt:          params.Receipt,
		Status:           "created",
	}, nil
}

func (f *fakeGateway) KeyID() string         { return "rzp_test_key" }
func (f *fakeGateway) SigningSecret() string { return testSecret }

func testConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		Currency:        "INR",
		CallbackBaseURL: "https://shop.verdantoils.in/api/v1/payments/razorpay/callback",
	}
}

func newTestService(t *testing.T, commerce *fakeCommerce, gateway *fakeGateway) Service {
	t.Helper()
	log := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(commerce, gateway, log, testConfig())
	require.NoError(t, err)
	return svc
}

func onlineDraft() woocommerce.OrderPayload {
	return woocommerce.OrderPayload{
		PaymentMethod: "razorpay",
		Status:        woocommerce.OrderStatusPending,
		Billing: woocommerce.Address{
			FirstName: "Asha", LastName: "Nair",
			Email: "asha@example.com", Phone: "9876543210",
		},
		LineItems: []woocommerce.LineItem{{ProductID: 101, Quantity: 2}},
	}
}

func TestStartCheckoutOnline(t *testing.T) {
	commerce := &fakeCommerce{}
	gateway := &fakeGateway{}
	svc := newTestService(t, commerce, gateway)

	outcome, err := svc.StartCheckout(context.Background(), onlineDraft())
	require.NoError(t, err)
	require.NotNil(t, outcome.Session)

	session := outcome.Session
	assert.Equal(t, "rzp_test_key", session.KeyID)
	assert.Equal(t, "order_Gw123", session.GatewayOrderID)
	assert.Equal(t, int64(125000), session.AmountMinorUnits)
	assert.Equal(t, "INR", session.Currency)
	assert.Equal(t, "https://shop.verdantoils.in/api/v1/payments/razorpay/callback?order_id=1", session.CallbackURL)
	assert.Equal(t, "Asha Nair", session.Prefill.Name)
	assert.Equal(t, "asha@example.com", session.Prefill.Email)
	assert.Equal(t, "9876543210", session.Prefill.Contact)

	require.Len(t, gateway.created, 1)
	params := gateway.created[0]
	assert.Equal(t, "order_1", params.Receipt)
	assert.Equal(t, "1", params.Notes["store_order_id"])
	assert.Equal(t, "wc_order_key", params.Notes["store_order_key"])
}

func TestStartCheckoutCODSkipsGateway(t *testing.T) {
	commerce := &fakeCommerce{}
	gateway := &fakeGateway{}
	svc := newTestService(t, commerce, gateway)

	draft := onlineDraft()
	draft.PaymentMethod = "cod"
	draft.Status = ""

	outcome, err := svc.StartCheckout(context.Background(), draft)
	require.NoError(t, err)
	assert.Nil(t, outcome.Session)
	assert.NotNil(t, outcome.Order)
	assert.Empty(t, gateway.created)
}

func TestStartCheckoutOrderCreationFailure(t *testing.T) {
	commerce := &fakeCommerce{createErr: assert.AnError}
	svc := newTestService(t, commerce, &fakeGateway{})

	_, err := svc.StartCheckout(context.Background(), onlineDraft())
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeDependency, coded.Code())
	assert.Equal(t, map[string]string{"step": "order-creation"}, coded.Details())
}

func TestStartCheckoutGatewayFailureLeavesOrder(t *testing.T) {
	commerce := &fakeCommerce{}
	gateway := &fakeGateway{createErr: assert.AnError}
	svc := newTestService(t, commerce, gateway)

	_, err := svc.StartCheckout(context.Background(), onlineDraft())
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeGateway, coded.Code())
	assert.Equal(t, map[string]string{"step": "gateway-order"}, coded.Details())

	// The pending order is not rolled back.
	require.Len(t, commerce.created, 1)
	assert.Contains(t, commerce.orders, 1)
}

func paidCallback(orderID int) Callback {
	paymentID := "pay_Abc123"
	gatewayOrderID := "order_Gw123"
	return Callback{
		OrderID:        orderID,
		PaymentID:      paymentID,
		GatewayOrderID: gatewayOrderID,
		Signature:      razorpay.ExpectedSignature(testSecret, gatewayOrderID, paymentID),
	}
}

func startedCheckout(t *testing.T, commerce *fakeCommerce, gateway *fakeGateway) Service {
	t.Helper()
	svc := newTestService(t, commerce, gateway)
	_, err := svc.StartCheckout(context.Background(), onlineDraft())
	require.NoError(t, err)
	return svc
}

func TestHandleCallbackFinalizesOrder(t *testing.T) {
	commerce := &fakeCommerce{}
	svc := startedCheckout(t, commerce, &fakeGateway{})

	order, err := svc.HandleCallback(context.Background(), paidCallback(1))
	require.NoError(t, err)
	assert.Equal(t, woocommerce.OrderStatusProcessing, order.Status)
	assert.Equal(t, "pay_Abc123", order.TransactionID)

	require.Len(t, commerce.updates, 1)
	update := commerce.updates[0]
	assert.True(t, update.SetPaid)
	assert.NotEmpty(t, update.DatePaid)
	_, err = time.Parse(time.RFC3339, update.DatePaid)
	require.NoError(t, err)

	keys := map[string]string{}
	for _, entry := range update.MetaData {
		keys[entry.Key] = entry.Value
	}
	assert.Equal(t, "pay_Abc123", keys["_razorpay_payment_id"])
	assert.Equal(t, "order_Gw123", keys["_razorpay_order_id"])
	assert.NotEmpty(t, keys["_razorpay_signature"])
}

func TestHandleCallbackMissingFields(t *testing.T) {
	svc := newTestService(t, &fakeCommerce{}, &fakeGateway{})

	cases := []Callback{
		{OrderID: 0, PaymentID: "p", GatewayOrderID: "g", Signature: "s"},
		{OrderID: 1, PaymentID: "", GatewayOrderID: "g", Signature: "s"},
		{OrderID: 1, PaymentID: "p", GatewayOrderID: "", Signature: "s"},
		{OrderID: 1, PaymentID: "p", GatewayOrderID: "g", Signature: ""},
	}
	for _, cb := range cases {
		_, err := svc.HandleCallback(context.Background(), cb)
		require.Error(t, err)
		coded := pkgerrors.As(err)
		require.NotNil(t, coded)
		assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
	}
}

func TestHandleCallbackForgedSignature(t *testing.T) {
	commerce := &fakeCommerce{}
	svc := startedCheckout(t, commerce, &fakeGateway{})

	cb := paidCallback(1)
	cb.Signature = razorpay.ExpectedSignature("wrong_secret", cb.GatewayOrderID, cb.PaymentID)

	_, err := svc.HandleCallback(context.Background(), cb)
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeSignature, coded.Code())

	// The order is never marked paid on a bad signature.
	assert.Zero(t, commerce.updateCalls)
	assert.Equal(t, woocommerce.OrderStatusPending, commerce.orders[1].Status)
}

func TestHandleCallbackIdempotentRedelivery(t *testing.T) {
	commerce := &fakeCommerce{}
	svc := startedCheckout(t, commerce, &fakeGateway{})

	cb := paidCallback(1)
	_, err := svc.HandleCallback(context.Background(), cb)
	require.NoError(t, err)
	require.Equal(t, 1, commerce.updateCalls)

	order, err := svc.HandleCallback(context.Background(), cb)
	require.NoError(t, err)
	assert.Equal(t, "pay_Abc123", order.TransactionID)
	// No second update for the same transaction.
	assert.Equal(t, 1, commerce.updateCalls)
}

func TestHandleCallbackReconciliationGap(t *testing.T) {
	commerce := &fakeCommerce{}
	svc := startedCheckout(t, commerce, &fakeGateway{})
	commerce.updateErr = assert.AnError

	_, err := svc.HandleCallback(context.Background(), paidCallback(1))
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeReconciliation, coded.Code())
	assert.Equal(t, map[string]string{"payment_id": "pay_Abc123"}, coded.Details())
}
