package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vortexsales/pos-backend/internal/ledger"
	"github.com/vortexsales/pos-backend/pkg/db/models"
	"github.com/vortexsales/pos-backend/pkg/enums"
)

// DailySummary aggregates one day of ledger entries by payment method.
type DailySummary struct {
	Date       time.Time
	CashTotal  decimal.Decimal
	CardTotal  decimal.Decimal
	GrandTotal decimal.Decimal
	Sales      []models.Sale
}

// Service produces daily sales reports from the ledger.
type Service interface {
	Daily(ctx context.Context, day time.Time) (*DailySummary, error)
}

type service struct {
	ledger ledger.Service
}

// NewService wires a report service over the ledger.
func NewService(ledgerSvc ledger.Service) (Service, error) {
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &service{ledger: ledgerSvc}, nil
}

func (s *service) Daily(ctx context.Context, day time.Time) (*DailySummary, error) {
	sales, err := s.ledger.ListForDate(ctx, day)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:       day,
		CashTotal:  decimal.Zero,
		CardTotal:  decimal.Zero,
		GrandTotal: decimal.Zero,
		Sales:      sales,
	}
	for _, sale := range sales {
		switch sale.PaymentMethod {
		case enums.PaymentMethodCash:
			summary.CashTotal = summary.CashTotal.Add(sale.Amount)
		case enums.PaymentMethodCard:
			summary.CardTotal = summary.CardTotal.Add(sale.Amount)
		}
		summary.GrandTotal = summary.GrandTotal.Add(sale.Amount)
	}
	return summary, nil
}
