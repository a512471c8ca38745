package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vortexsales/pos-backend/pkg/db/models"
	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service validates additions against live catalog stock and maintains the
// active cart.
type Service interface {
	AddLine(ctx context.Context, productID uuid.UUID, quantity int) (*Line, error)
	RemoveLine(lineID uuid.UUID)
	Clear()
	Cart() *Cart
}

type service struct {
	cart    *Cart
	catalog productLoader
}

// NewService builds a cart service over the provided catalog loader.
func NewService(catalog productLoader) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{cart: New(), catalog: catalog}, nil
}

// AddLine re-reads the product so the stock check sees the current quantity
// rather than whatever an earlier resolution returned, then appends a line
// snapshotting the current price.
func (s *service) AddLine(ctx context.Context, productID uuid.UUID, quantity int) (*Line, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"requested": quantity})
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if quantity > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
			WithDetails(map[string]any{
				"product_id": product.ID,
				"available":  product.Stock,
				"requested":  quantity,
			})
	}

	line := Line{
		ID:          uuid.New(),
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    quantity,
	}
	s.cart.append(line)
	return &line, nil
}

func (s *service) RemoveLine(lineID uuid.UUID) {
	s.cart.Remove(lineID)
}

func (s *service) Clear() {
	s.cart.Clear()
}

// Cart exposes the active cart for settlement and read paths.
func (s *service) Cart() *Cart {
	return s.cart
}
