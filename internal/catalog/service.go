package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vortexsales/pos-backend/pkg/db"
	"github.com/vortexsales/pos-backend/pkg/db/models"
	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
)

// MatchKind classifies a resolution outcome.
type MatchKind string

const (
	MatchNone      MatchKind = "none"
	MatchUnique    MatchKind = "unique"
	MatchAmbiguous MatchKind = "ambiguous"
)

// Resolution is the outcome of resolving a free-text query. An ambiguous
// resolution carries every candidate; picking one is the caller's job.
type Resolution struct {
	Kind     MatchKind
	Products []models.Product
}

// Product returns the single match of a unique resolution.
func (r *Resolution) Product() *models.Product {
	if r == nil || r.Kind != MatchUnique || len(r.Products) == 0 {
		return nil
	}
	return &r.Products[0]
}

// UpsertInput captures the fields accepted by Upsert.
type UpsertInput struct {
	Code       string
	Name       string
	Price      decimal.Decimal
	StockDelta int
}

// Service exposes catalog lookups and maintenance.
type Service interface {
	Resolve(ctx context.Context, query string) (*Resolution, error)
	Upsert(ctx context.Context, input UpsertInput) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo *Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Resolve normalizes the query and matches it against the catalog. An exact
// code match takes absolute precedence over name matches. The method never
// writes.
func (s *service) Resolve(ctx context.Context, query string) (*Resolution, error) {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return &Resolution{Kind: MatchNone}, nil
	}

	byCode, err := s.repo.FindByExactCode(ctx, term)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product by code")
	}
	if byCode != nil {
		return &Resolution{Kind: MatchUnique, Products: []models.Product{*byCode}}, nil
	}

	matches, err := s.repo.SearchByName(ctx, term)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products by name")
	}

	switch len(matches) {
	case 0:
		return &Resolution{Kind: MatchNone}, nil
	case 1:
		return &Resolution{Kind: MatchUnique, Products: matches}, nil
	default:
		return &Resolution{Kind: MatchAmbiguous, Products: matches}, nil
	}
}

// Upsert adds StockDelta to the product matching the name case-insensitively,
// refreshing price and code, or inserts a new product.
func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	code := strings.TrimSpace(input.Code)

	existing, err := s.repo.FindByName(ctx, strings.ToLower(name))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product by name")
	}

	if existing != nil {
		newStock := existing.Stock + input.StockDelta
		if newStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot go negative").
				WithDetails(map[string]any{"current": existing.Stock, "delta": input.StockDelta})
		}
		existing.Stock = newStock
		existing.Price = input.Price
		existing.Code = codePtr(code)
		saved, err := s.repo.Save(ctx, existing)
		if err != nil {
			return nil, wrapWriteError(err, "update product")
		}
		return saved, nil
	}

	if input.StockDelta < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial stock cannot be negative")
	}

	created, err := s.repo.Create(ctx, &models.Product{
		Code:  codePtr(code),
		Name:  name,
		Price: input.Price,
		Stock: input.StockDelta,
	})
	if err != nil {
		return nil, wrapWriteError(err, "insert product")
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func wrapWriteError(err error, msg string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product code or name already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func codePtr(code string) *string {
	if code == "" {
		return nil
	}
	return &code
}
