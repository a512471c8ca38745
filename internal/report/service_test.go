package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vortexsales/pos-backend/internal/ledger"
	"github.com/vortexsales/pos-backend/pkg/db/models"
	"github.com/vortexsales/pos-backend/pkg/enums"
)

func newTestService(t *testing.T) (Service, ledger.Service) {
	t.Helper()
	dsn := "file:report_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Sale{}); err != nil {
		t.Fatalf("migrate sales: %v", err)
	}
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(db))
	if err != nil {
		t.Fatalf("ledger service: %v", err)
	}
	svc, err := NewService(ledgerSvc)
	if err != nil {
		t.Fatalf("report service: %v", err)
	}
	return svc, ledgerSvc
}

func TestDailySummarySplitsByMethod(t *testing.T) {
	t.Parallel()

	svc, ledgerSvc := newTestService(t)
	ctx := context.Background()
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.Local)

	seed := []ledger.AppendSaleInput{
		{SoldAt: day.Add(9 * time.Hour), PaymentMethod: enums.PaymentMethodCash, Amount: decimal.RequireFromString("30.00")},
		{SoldAt: day.Add(11 * time.Hour), PaymentMethod: enums.PaymentMethodCash, Amount: decimal.RequireFromString("7.25")},
		{SoldAt: day.Add(16 * time.Hour), PaymentMethod: enums.PaymentMethodCard, Amount: decimal.RequireFromString("12.50")},
		{SoldAt: day.AddDate(0, 0, -1), PaymentMethod: enums.PaymentMethodCard, Amount: decimal.RequireFromString("99.00")},
	}
	for _, input := range seed {
		if _, err := ledgerSvc.Append(ctx, input); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	summary, err := svc.Daily(ctx, day)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}

	if !summary.CashTotal.Equal(decimal.RequireFromString("37.25")) {
		t.Fatalf("expected cash total 37.25, got %s", summary.CashTotal)
	}
	if !summary.CardTotal.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected card total 12.50, got %s", summary.CardTotal)
	}
	if !summary.GrandTotal.Equal(decimal.RequireFromString("49.75")) {
		t.Fatalf("expected grand total 49.75, got %s", summary.GrandTotal)
	}
	if len(summary.Sales) != 3 {
		t.Fatalf("expected 3 sales in summary, got %d", len(summary.Sales))
	}
}

func TestDailySummaryEmptyDay(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	summary, err := svc.Daily(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if !summary.GrandTotal.Equal(decimal.Zero) {
		t.Fatalf("expected zero grand total, got %s", summary.GrandTotal)
	}
	if len(summary.Sales) != 0 {
		t.Fatalf("expected no sales, got %d", len(summary.Sales))
	}
}
