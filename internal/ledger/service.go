package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vortexsales/pos-backend/pkg/db/models"
	"github.com/vortexsales/pos-backend/pkg/enums"
)

// Service defines operations that record and read sales.
type Service interface {
	Append(ctx context.Context, input AppendSaleInput) (*models.Sale, error)
	ListForDate(ctx context.Context, day time.Time) ([]models.Sale, error)
}

type service struct {
	repo Repository
}

// AppendSaleInput captures the immutable data a sale record requires.
type AppendSaleInput struct {
	SoldAt        time.Time
	PaymentMethod enums.PaymentMethod
	Amount        decimal.Decimal
	Reference     string
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, input AppendSaleInput) (*models.Sale, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("invalid payment method %q", input.PaymentMethod)
	}
	if input.Amount.IsNegative() {
		return nil, fmt.Errorf("sale amount cannot be negative")
	}

	soldAt := input.SoldAt
	if soldAt.IsZero() {
		soldAt = time.Now()
	}

	sale := &models.Sale{
		SoldAt:        soldAt,
		PaymentMethod: input.PaymentMethod,
		Amount:        input.Amount,
		Reference:     input.Reference,
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) ListForDate(ctx context.Context, day time.Time) ([]models.Sale, error) {
	return s.repo.ListByDate(ctx, day)
}
