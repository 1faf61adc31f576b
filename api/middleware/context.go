package middleware

import "context"

type ctxKeyType string

const (
	ctxCustomerID ctxKeyType = "customer_id"
	ctxEmail      ctxKeyType = "customer_email"
)

// CustomerIDFromContext returns the authenticated customer id, or zero
// when the request is unauthenticated.
func CustomerIDFromContext(ctx context.Context) int {
	if v, ok := ctx.Value(ctxCustomerID).(int); ok {
		return v
	}
	return 0
}

// EmailFromContext returns the authenticated customer email.
func EmailFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}
