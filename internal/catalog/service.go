package catalog

import (
	"context"
	"strings"

	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/pagination"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

type commerceClient interface {
	ListProducts(ctx context.Context, page pagination.Params) ([]woocommerce.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*woocommerce.Product, error)
	ListVariations(ctx context.Context, productID int) ([]woocommerce.Variation, error)
}

// Service proxies catalog reads to the commerce backend.
type Service interface {
	Products(ctx context.Context, page pagination.Params) ([]woocommerce.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*woocommerce.Product, error)
	Variations(ctx context.Context, productID int) ([]woocommerce.Variation, error)
}

type service struct {
	client commerceClient
}

// NewService builds the catalog proxy.
func NewService(client commerceClient) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "commerce client required")
	}
	return &service{client: client}, nil
}

func (s *service) Products(ctx context.Context, page pagination.Params) ([]woocommerce.Product, error) {
	products, err := s.client.ListProducts(ctx, page.Normalize())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) ProductBySlug(ctx context.Context, slug string) (*woocommerce.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug required")
	}
	product, err := s.client.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Variations(ctx context.Context, productID int) ([]woocommerce.Variation, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	variations, err := s.client.ListVariations(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variations")
	}
	return variations, nil
}
