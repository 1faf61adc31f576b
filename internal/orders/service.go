package orders

import (
	"context"
	"strings"

	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

type commerceClient interface {
	GetOrder(ctx context.Context, orderID int) (*woocommerce.Order, error)
}

// Service exposes guest order tracking.
type Service interface {
	Track(ctx context.Context, orderID int, email string) (*woocommerce.Order, error)
}

type service struct {
	client commerceClient
}

// NewService builds the order tracking service.
func NewService(client commerceClient) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "commerce client required")
	}
	return &service{client: client}, nil
}

// Track returns the order only when the supplied email matches its
// billing email. A mismatch reports the same not-found as a missing
// order so the endpoint cannot confirm which order ids exist.
func (s *service) Track(ctx context.Context, orderID int, email string) (*woocommerce.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if orderID <= 0 || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and email required")
	}

	order, err := s.client.GetOrder(ctx, orderID)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			return nil, notFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch order")
	}
	if order == nil || !strings.EqualFold(strings.TrimSpace(order.Billing.Email), email) {
		return nil, notFound()
	}
	return order, nil
}

func notFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}
