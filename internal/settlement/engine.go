package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vortexsales/pos-backend/internal/cart"
	"github.com/vortexsales/pos-backend/internal/catalog"
	"github.com/vortexsales/pos-backend/internal/ledger"
	"github.com/vortexsales/pos-backend/internal/receipt"
	"github.com/vortexsales/pos-backend/pkg/db/models"
	"github.com/vortexsales/pos-backend/pkg/enums"
	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
	"github.com/vortexsales/pos-backend/pkg/logger"
	"github.com/vortexsales/pos-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Payment carries the fully-formed payment details the caller collected.
// Tendered is required for cash, Reference for card.
type Payment struct {
	Method    enums.PaymentMethod
	Tendered  *decimal.Decimal
	Reference string
}

// Engine orchestrates the atomic transition from a finalized cart into a
// persisted sale, decremented stock, and a rendered receipt.
type Engine struct {
	tx          txRunner
	catalogRepo *catalog.Repository
	ledgerRepo  ledger.Repository
	writer      *receipt.Writer
	metrics     *metrics.SettlementMetrics
	logg        *logger.Logger

	company string
	taxID   string
	now     func() time.Time
}

// Params wires an Engine.
type Params struct {
	Tx          txRunner
	CatalogRepo *catalog.Repository
	LedgerRepo  ledger.Repository
	Writer      *receipt.Writer
	Metrics     *metrics.SettlementMetrics
	Logger      *logger.Logger
	CompanyName string
	TaxID       string
	Now         func() time.Time
}

// NewEngine builds the settlement engine.
func NewEngine(p Params) (*Engine, error) {
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if p.CatalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if p.LedgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Engine{
		tx:          p.Tx,
		catalogRepo: p.CatalogRepo,
		ledgerRepo:  p.LedgerRepo,
		writer:      p.Writer,
		metrics:     p.Metrics,
		logg:        p.Logger,
		company:     p.CompanyName,
		taxID:       p.TaxID,
		now:         p.Now,
	}, nil
}

// Settle validates the cart and payment, then commits the sale record and
// the stock decrements in one transaction. Validation failures leave the
// cart and both stores untouched; a successful settlement clears the cart.
func (e *Engine) Settle(ctx context.Context, c *cart.Cart, payment Payment) (*receipt.Receipt, error) {
	start := time.Now()
	rec, err := e.settle(ctx, c, payment)
	e.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		e.metrics.IncFailure(failureLabel(err))
		return nil, err
	}
	e.metrics.IncSuccess(payment.Method.String())
	return rec, nil
}

func (e *Engine) settle(ctx context.Context, c *cart.Cart, payment Payment) (*receipt.Receipt, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	total := c.Total()

	detail, reference, err := paymentDetail(payment, total)
	if err != nil {
		return nil, err
	}

	soldAt := e.now()

	txErr := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := e.catalogRepo.WithTx(tx)
		ledgerRepo := e.ledgerRepo.WithTx(tx)

		// Every line is re-checked against current stock before the first
		// write; a concurrent sale or admin edit since the line was added
		// invalidates the whole settlement. Demand is summed per product so
		// duplicate lines cannot pass individually and overdraw together.
		need := map[uuid.UUID]int{}
		for _, line := range lines {
			product, err := catalogRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return staleStockError(line, 0, line.Quantity)
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "re-read product stock")
			}
			need[line.ProductID] += line.Quantity
			if need[line.ProductID] > product.Stock {
				return staleStockError(line, product.Stock, need[line.ProductID])
			}
		}

		sale := &models.Sale{
			SoldAt:        soldAt,
			PaymentMethod: payment.Method,
			Amount:        total,
			Reference:     reference,
		}
		if err := ledgerRepo.Create(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append sale record")
		}

		for _, line := range lines {
			ok, err := catalogRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return integrityError(line, err)
			}
			if !ok {
				return integrityError(line, nil)
			}
		}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil && typed.Code() == pkgerrors.CodeIntegrity && e.logg != nil {
			e.logg.Error(ctx, "settlement.integrity_failure", txErr)
		}
		return nil, txErr
	}

	rec := e.buildReceipt(lines, total, payment.Method, detail, soldAt)

	if e.writer != nil {
		if _, err := e.writer.Store(*rec); err != nil {
			// The sale is already committed; a ticket file problem must not
			// report the settlement as failed.
			if e.logg != nil {
				e.logg.Error(ctx, "settlement.receipt_write_failed", err)
			}
		}
	}

	c.Clear()
	return rec, nil
}

func paymentDetail(payment Payment, total decimal.Decimal) (detail, reference string, err error) {
	switch payment.Method {
	case enums.PaymentMethodCash:
		if payment.Tendered == nil {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "tendered amount is required for cash")
		}
		if payment.Tendered.LessThan(total) {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "insufficient payment").
				WithDetails(map[string]any{
					"required": total.StringFixed(2),
					"given":    payment.Tendered.StringFixed(2),
				})
		}
		change := payment.Tendered.Sub(total)
		detail = fmt.Sprintf("Vuelto: $%.2f", change.InexactFloat64())
		return detail, detail, nil

	case enums.PaymentMethodCard:
		ref := strings.TrimSpace(payment.Reference)
		if ref == "" {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "card reference is required")
		}
		detail = "Ref: " + ref
		return detail, detail, nil

	default:
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", payment.Method))
	}
}

func (e *Engine) buildReceipt(lines []cart.Line, total decimal.Decimal, method enums.PaymentMethod, detail string, soldAt time.Time) *receipt.Receipt {
	items := make([]receipt.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, receipt.Item{
			Quantity: line.Quantity,
			Name:     line.ProductName,
			Subtotal: line.Subtotal(),
		})
	}
	return &receipt.Receipt{
		Company:  e.company,
		TaxID:    e.taxID,
		IssuedAt: soldAt,
		Items:    items,
		Total:    total,
		Method:   method,
		Detail:   detail,
	}
}

func staleStockError(line cart.Line, available, requested int) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "stock changed since line was added").
		WithDetails(map[string]any{
			"line_id":   line.ID,
			"product":   line.ProductName,
			"available": available,
			"requested": requested,
		})
}

func integrityError(line cart.Line, cause error) error {
	details := map[string]any{
		"line_id": line.ID,
		"product": line.ProductName,
	}
	if cause != nil {
		return pkgerrors.Wrap(pkgerrors.CodeIntegrity, cause, "stock decrement failed after ledger write").WithDetails(details)
	}
	return pkgerrors.New(pkgerrors.CodeIntegrity, "stock decrement raced past validation").WithDetails(details)
}

func failureLabel(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(pkgerrors.CodeInternal)
}
