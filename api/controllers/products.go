package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vortexsales/pos-backend/api/responses"
	"github.com/vortexsales/pos-backend/api/validators"
	catalogsvc "github.com/vortexsales/pos-backend/internal/catalog"
	"github.com/vortexsales/pos-backend/pkg/db/models"
	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
	"github.com/vortexsales/pos-backend/pkg/logger"
)

type productView struct {
	ID    string  `json:"id"`
	Code  *string `json:"code,omitempty"`
	Name  string  `json:"name"`
	Price string  `json:"price"`
	Stock int     `json:"stock"`
}

func toProductView(p models.Product) productView {
	return productView{
		ID:    p.ID.String(),
		Code:  p.Code,
		Name:  p.Name,
		Price: p.Price.StringFixed(2),
		Stock: p.Stock,
	}
}

func toProductViews(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

// ListProducts returns the full catalog in insertion order.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toProductViews(products))
	}
}

type upsertProductRequest struct {
	Code       string `json:"code,omitempty"`
	Name       string `json:"name" validate:"required,max=120"`
	Price      string `json:"price" validate:"required"`
	StockDelta int    `json:"stock_delta"`
}

// UpsertProduct inserts a product or, when the name already exists,
// accumulates stock and refreshes price and code.
func UpsertProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload upsertProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a decimal number"))
			return
		}

		product, err := svc.Upsert(r.Context(), catalogsvc.UpsertInput{
			Code:       payload.Code,
			Name:       payload.Name,
			Price:      price,
			StockDelta: payload.StockDelta,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toProductView(*product))
	}
}

type resolutionView struct {
	Kind     string        `json:"kind"`
	Products []productView `json:"products"`
}

// SearchProducts resolves a free-text query against the catalog. An exact
// code match returns a single product; otherwise name matches are returned
// and the kind field tells the caller whether the result is unique.
func SearchProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		term := validators.ParseQueryTerm(r, "q")
		if term == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}

		resolution, err := svc.Resolve(r.Context(), term)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resolutionView{
			Kind:     string(resolution.Kind),
			Products: toProductViews(resolution.Products),
		})
	}
}
