package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vortexsales/pos-backend/api/responses"
	"github.com/vortexsales/pos-backend/api/validators"
	cartsvc "github.com/vortexsales/pos-backend/internal/cart"
	"github.com/vortexsales/pos-backend/internal/report"
	"github.com/vortexsales/pos-backend/internal/settlement"
	"github.com/vortexsales/pos-backend/pkg/db/models"
	"github.com/vortexsales/pos-backend/pkg/enums"
	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
	"github.com/vortexsales/pos-backend/pkg/logger"
)

type createSaleRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=CASH CARD"`
	Tendered      *string `json:"tendered,omitempty"`
	Reference     string  `json:"reference,omitempty"`
}

type saleReceiptView struct {
	IssuedAt time.Time `json:"issued_at"`
	Total    string    `json:"total"`
	Method   string    `json:"payment_method"`
	Detail   string    `json:"detail"`
	Ticket   string    `json:"ticket"`
}

// CreateSale settles the active cart: one transaction writes the ledger
// record and decrements stock, then the receipt is rendered and the cart
// cleared.
func CreateSale(engine *settlement.Engine, cart cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil || cart == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement engine unavailable"))
			return
		}

		var payload createSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		payment := settlement.Payment{Method: method, Reference: payload.Reference}
		if payload.Tendered != nil {
			tendered, err := decimal.NewFromString(*payload.Tendered)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tendered must be a decimal number"))
				return
			}
			payment.Tendered = &tendered
		}

		rec, err := engine.Settle(r.Context(), cart.Cart(), payment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, saleReceiptView{
			IssuedAt: rec.IssuedAt,
			Total:    rec.Total.StringFixed(2),
			Method:   rec.Method.String(),
			Detail:   rec.Detail,
			Ticket:   rec.Render(),
		})
	}
}

type saleView struct {
	ID            string    `json:"id"`
	SoldAt        time.Time `json:"sold_at"`
	PaymentMethod string    `json:"payment_method"`
	Amount        string    `json:"amount"`
	Reference     string    `json:"reference,omitempty"`
}

type dailyReportView struct {
	Date       string     `json:"date"`
	CashTotal  string     `json:"cash_total"`
	CardTotal  string     `json:"card_total"`
	GrandTotal string     `json:"grand_total"`
	Sales      []saleView `json:"sales"`
}

func toSaleViews(sales []models.Sale) []saleView {
	views := make([]saleView, 0, len(sales))
	for _, sale := range sales {
		views = append(views, saleView{
			ID:            sale.ID.String(),
			SoldAt:        sale.SoldAt,
			PaymentMethod: sale.PaymentMethod.String(),
			Amount:        sale.Amount.StringFixed(2),
			Reference:     sale.Reference,
		})
	}
	return views
}

// DailyReport aggregates one day of ledger entries by payment method. The
// date query parameter defaults to today.
func DailyReport(svc report.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		day, err := validators.ParseQueryDate(r, "date", time.Now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Daily(r.Context(), day)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dailyReportView{
			Date:       summary.Date.Format("2006-01-02"),
			CashTotal:  summary.CashTotal.StringFixed(2),
			CardTotal:  summary.CardTotal.StringFixed(2),
			GrandTotal: summary.GrandTotal.StringFixed(2),
			Sales:      toSaleViews(summary.Sales),
		})
	}
}
