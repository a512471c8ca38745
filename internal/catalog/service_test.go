package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vortexsales/pos-backend/pkg/db/models"
	pkgerrors "github.com/vortexsales/pos-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func seedProduct(t *testing.T, repo *Repository, code, name string, price string, stock int) *models.Product {
	t.Helper()
	var codeP *string
	if code != "" {
		codeP = &code
	}
	product, err := repo.Create(context.Background(), &models.Product{
		Code:  codeP,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return product
}

func TestResolveCodeTakesPrecedence(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	// A product whose name contains the code term must lose to the exact
	// code match.
	seedProduct(t, repo, "", "Cable A1 Premium", "4.00", 10)
	coded := seedProduct(t, repo, "A1", "Widget", "10.00", 5)

	res, err := svc.Resolve(ctx, "  A1 ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != MatchUnique {
		t.Fatalf("expected unique match, got %s", res.Kind)
	}
	if got := res.Product(); got == nil || got.ID != coded.ID {
		t.Fatalf("expected coded product, got %+v", got)
	}
}

func TestResolveNameContains(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	seedProduct(t, repo, "", "Mouse Inalambrico", "8.50", 3)
	seedProduct(t, repo, "", "Mouse Gamer", "15.00", 2)
	seedProduct(t, repo, "", "Teclado", "12.00", 1)

	res, err := svc.Resolve(ctx, "MOUSE")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != MatchAmbiguous {
		t.Fatalf("expected ambiguous match, got %s", res.Kind)
	}
	if len(res.Products) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(res.Products))
	}
	if res.Product() != nil {
		t.Fatal("ambiguous resolution must not expose a single product")
	}

	res, err = svc.Resolve(ctx, "teclado")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != MatchUnique {
		t.Fatalf("expected unique match, got %s", res.Kind)
	}
}

func TestResolveNoMatch(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	seedProduct(t, repo, "B2", "Widget", "10.00", 5)

	res, err := svc.Resolve(context.Background(), "monitor")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != MatchNone || len(res.Products) != 0 {
		t.Fatalf("expected no match, got %+v", res)
	}

	res, err = svc.Resolve(context.Background(), "   ")
	if err != nil {
		t.Fatalf("resolve blank: %v", err)
	}
	if res.Kind != MatchNone {
		t.Fatalf("expected no match for blank query, got %s", res.Kind)
	}
}

func TestUpsertInsertsNewProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	product, err := svc.Upsert(context.Background(), UpsertInput{
		Code:       "C3",
		Name:       "  Monitor 24  ",
		Price:      decimal.RequireFromString("120.00"),
		StockDelta: 4,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if product.Name != "Monitor 24" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.Stock != 4 {
		t.Fatalf("expected stock 4, got %d", product.Stock)
	}
	if product.Code == nil || *product.Code != "C3" {
		t.Fatalf("expected code C3, got %v", product.Code)
	}
}

func TestUpsertAccumulatesStockByName(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	existing := seedProduct(t, repo, "D4", "Widget", "10.00", 5)

	// Same name in different case accumulates stock and refreshes price.
	updated, err := svc.Upsert(context.Background(), UpsertInput{
		Code:       "D5",
		Name:       "wIdGeT",
		Price:      decimal.RequireFromString("11.50"),
		StockDelta: 3,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if updated.ID != existing.ID {
		t.Fatal("expected the existing row to be updated, not a new one")
	}
	if updated.Stock != 8 {
		t.Fatalf("expected stock 8, got %d", updated.Stock)
	}
	if !updated.Price.Equal(decimal.RequireFromString("11.50")) {
		t.Fatalf("expected refreshed price, got %s", updated.Price)
	}
	if updated.Code == nil || *updated.Code != "D5" {
		t.Fatalf("expected refreshed code, got %v", updated.Code)
	}
}

func TestUpsertRejectsNegativeOutcomes(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	seedProduct(t, repo, "", "Widget", "10.00", 2)

	_, err := svc.Upsert(context.Background(), UpsertInput{
		Name:       "Widget",
		Price:      decimal.RequireFromString("10.00"),
		StockDelta: -5,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative stock, got %v", err)
	}

	_, err = svc.Upsert(context.Background(), UpsertInput{
		Name:       "Brand New",
		Price:      decimal.RequireFromString("10.00"),
		StockDelta: -1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative initial stock, got %v", err)
	}

	_, err = svc.Upsert(context.Background(), UpsertInput{
		Name:  "",
		Price: decimal.RequireFromString("10.00"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}

	_, err = svc.Upsert(context.Background(), UpsertInput{
		Name:  "Negative Price",
		Price: decimal.RequireFromString("-1.00"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestDecrementStockGuard(t *testing.T) {
	t.Parallel()

	_, repo := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, repo, "", "Widget", "10.00", 5)

	ok, err := repo.DecrementStock(ctx, product.ID, 3)
	if err != nil || !ok {
		t.Fatalf("expected decrement to succeed, ok=%v err=%v", ok, err)
	}

	// Remaining stock is 2; asking for 3 must not change the row.
	ok, err = repo.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected guarded decrement to refuse going negative")
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", reloaded.Stock)
	}
}
