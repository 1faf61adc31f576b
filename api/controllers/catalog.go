package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdant-oils/storefront-backend/api/responses"
	"github.com/verdant-oils/storefront-backend/api/validators"
	"github.com/verdant-oils/storefront-backend/internal/catalog"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
	"github.com/verdant-oils/storefront-backend/pkg/pagination"
	"github.com/verdant-oils/storefront-backend/pkg/types"
)

func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pagination.FromQuery(r.URL.Query())
		products, err := svc.Products(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, products, types.ListMeta{Page: page.Page, PerPage: page.PerPage})
	}
}

func CatalogProductBySlug(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.ProductBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogVariations(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathInt(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variations, err := svc.Variations(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, variations)
	}
}
