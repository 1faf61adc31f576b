package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/pagination"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

type fakeCatalog struct {
	products   []woocommerce.Product
	variations []woocommerce.Variation
	err        error
	lastPage   pagination.Params
}

func (f *fakeCatalog) ListProducts(_ context.Context, page pagination.Params) ([]woocommerce.Product, error) {
	f.lastPage = page
	return f.products, f.err
}

func (f *fakeCatalog) GetProductBySlug(_ context.Context, slug string) (*woocommerce.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].Slug == slug {
			return &f.products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (f *fakeCatalog) ListVariations(context.Context, int) ([]woocommerce.Variation, error) {
	return f.variations, f.err
}

func TestProductsProxiesList(t *testing.T) {
	fake := &fakeCatalog{products: []woocommerce.Product{{ID: 1, Slug: "groundnut-oil"}}}
	svc, err := NewService(fake)
	require.NoError(t, err)

	products, err := svc.Products(context.Background(), pagination.Params{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "groundnut-oil", products[0].Slug)
	assert.Equal(t, pagination.Params{Page: 1, PerPage: pagination.DefaultPerPage}, fake.lastPage)
}

func TestProductBySlugValidation(t *testing.T) {
	svc, err := NewService(&fakeCatalog{})
	require.NoError(t, err)

	_, err = svc.ProductBySlug(context.Background(), "   ")
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestProductBySlugNotFoundPassesThrough(t *testing.T) {
	svc, err := NewService(&fakeCatalog{})
	require.NoError(t, err)

	_, err = svc.ProductBySlug(context.Background(), "missing")
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestVariationsRejectsBadID(t *testing.T) {
	svc, err := NewService(&fakeCatalog{})
	require.NoError(t, err)

	_, err = svc.Variations(context.Background(), 0)
	require.Error(t, err)
}

func sizedVariation(id int, option string) woocommerce.Variation {
	return woocommerce.Variation{
		ID:         id,
		Attributes: []woocommerce.VariationAttribute{{Name: "Size", Option: option}},
	}
}

func TestMatchVariationAliases(t *testing.T) {
	variations := []woocommerce.Variation{
		sizedVariation(11, "500 ml"),
		sizedVariation(12, "1 Litre"),
		sizedVariation(13, "5L"),
	}

	cases := []struct {
		label  string
		wantID int
	}{
		{"1 Litre", 12},
		{"1l", 12},
		{"1000 ml", 12},
		{"1 LTR", 12},
		{"500ml", 11},
		{"0.5 L", 11},
		{"5 litre", 13},
		{"5000ml", 13},
	}
	for _, tc := range cases {
		match, ok := MatchVariation(tc.label, variations)
		require.True(t, ok, "label %q", tc.label)
		assert.Equal(t, tc.wantID, match.ID, "label %q", tc.label)
	}
}

func TestMatchVariationNoMatch(t *testing.T) {
	variations := []woocommerce.Variation{sizedVariation(11, "500 ml")}

	_, ok := MatchVariation("2 Litre", variations)
	assert.False(t, ok)

	_, ok = MatchVariation("", variations)
	assert.False(t, ok)

	_, ok = MatchVariation("1 Litre", nil)
	assert.False(t, ok)
}

func TestMatchVariationExactNormalizedFallback(t *testing.T) {
	// A size absent from the alias table still matches when both sides
	// normalize identically.
	variations := []woocommerce.Variation{sizedVariation(21, "750 ML")}

	match, ok := MatchVariation("750ml", variations)
	require.True(t, ok)
	assert.Equal(t, 21, match.ID)
}
