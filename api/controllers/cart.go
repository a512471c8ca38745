package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vortexsales/pos-backend/api/responses"
	"github.com/vortexsales/pos-backend/api/validators"
	cartsvc "github.com/vortexsales/pos-backend/internal/cart"
	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
	"github.com/vortexsales/pos-backend/pkg/logger"
)

type cartLineView struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

type cartView struct {
	Lines []cartLineView `json:"lines"`
	Total string         `json:"total"`
}

func toCartView(c *cartsvc.Cart) cartView {
	lines := c.Lines()
	views := make([]cartLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, cartLineView{
			ID:          line.ID.String(),
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal().StringFixed(2),
		})
	}
	return cartView{Lines: views, Total: c.Total().StringFixed(2)}
}

// GetCart returns the active cart's lines and running total.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		responses.WriteSuccess(w, toCartView(svc.Cart()))
	}
}

type addCartLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required"`
}

// AddCartLine snapshots a product into the cart after re-reading its stock.
func AddCartLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		line, err := svc.AddLine(r.Context(), productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cartLineView{
			ID:          line.ID.String(),
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal().StringFixed(2),
		})
	}
}

// RemoveCartLine drops a line by id. Unknown ids are a no-op.
func RemoveCartLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		svc.RemoveLine(lineID)
		responses.WriteSuccess(w, toCartView(svc.Cart()))
	}
}

// ClearCart drops every line from the active cart.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		svc.Clear()
		responses.WriteSuccess(w, toCartView(svc.Cart()))
	}
}
