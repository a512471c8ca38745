package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	cartsvc "github.com/vortexsales/pos-backend/internal/cart"
	"github.com/vortexsales/pos-backend/internal/catalog"
	"github.com/vortexsales/pos-backend/internal/ledger"
	"github.com/vortexsales/pos-backend/internal/receipt"
	"github.com/vortexsales/pos-backend/internal/report"
	"github.com/vortexsales/pos-backend/internal/settlement"
	"github.com/vortexsales/pos-backend/pkg/config"
	"github.com/vortexsales/pos-backend/pkg/db"
	"github.com/vortexsales/pos-backend/pkg/db/models"
	"github.com/vortexsales/pos-backend/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.SQLitePath = "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	cfg.POS.CompanyName = "TECH STORE S.A."
	cfg.POS.TaxID = "RIF: J-12345678-0"

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	client, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	if err := client.DB().AutoMigrate(&models.Product{}, &models.Sale{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	catalogRepo := catalog.NewRepository(client.DB())
	ledgerRepo := ledger.NewRepository(client.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	cartService, err := cartsvc.NewService(catalogRepo)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	ledgerService, err := ledger.NewService(ledgerRepo)
	if err != nil {
		t.Fatalf("ledger service: %v", err)
	}
	reportService, err := report.NewService(ledgerService)
	if err != nil {
		t.Fatalf("report service: %v", err)
	}
	writer, err := receipt.NewWriter(filepath.Join(t.TempDir(), "facturas"))
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	engine, err := settlement.NewEngine(settlement.Params{
		Tx:          client,
		CatalogRepo: catalogRepo,
		LedgerRepo:  ledgerRepo,
		Writer:      writer,
		Logger:      logg,
		CompanyName: cfg.POS.CompanyName,
		TaxID:       cfg.POS.TaxID,
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	return NewRouter(cfg, logg, client, nil, catalogService, cartService, reportService, engine)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func dataOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return envelope.Data
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Vortex-Env") != "test" {
		t.Fatalf("missing env header, got %q", rec.Header().Get("X-Vortex-Env"))
	}

	rec = doJSON(t, router, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
}

func TestSaleFlowEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	// Stock the catalog.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"code":        "A1",
		"name":        "Widget",
		"price":       "10.00",
		"stock_delta": 5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upsert: expected 201, got %d\n%s", rec.Code, rec.Body.String())
	}
	product := dataOf(t, rec)
	productID, _ := product["id"].(string)
	if productID == "" {
		t.Fatalf("missing product id in %v", product)
	}

	// Code match wins over name search.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/search?q=a1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	if resolution := dataOf(t, rec); resolution["kind"] != "unique" {
		t.Fatalf("expected unique resolution, got %v", resolution)
	}

	// Ring up three units.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/lines", map[string]any{
		"product_id": productID,
		"quantity":   3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add line: expected 201, got %d\n%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	if cart := dataOf(t, rec); cart["total"] != "30.00" {
		t.Fatalf("expected cart total 30.00, got %v", cart["total"])
	}

	// Settle with cash.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
		"payment_method": "CASH",
		"tendered":       "50.00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("sale: expected 201, got %d\n%s", rec.Code, rec.Body.String())
	}
	sale := dataOf(t, rec)
	if sale["total"] != "30.00" || sale["detail"] != "Vuelto: $20.00" {
		t.Fatalf("unexpected sale response %v", sale)
	}

	// Stock is down and the cart is empty.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	var listEnvelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listEnvelope); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listEnvelope.Data) != 1 || listEnvelope.Data[0]["stock"] != float64(2) {
		t.Fatalf("expected stock 2, got %v", listEnvelope.Data)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	if cart := dataOf(t, rec); cart["total"] != "0.00" {
		t.Fatalf("expected cleared cart, got %v", cart)
	}

	// Today's report carries the sale.
	today := time.Now().Format("2006-01-02")
	rec = doJSON(t, router, http.MethodGet, "/api/v1/sales/report?date="+today, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d", rec.Code)
	}
	summary := dataOf(t, rec)
	if summary["cash_total"] != "30.00" || summary["grand_total"] != "30.00" {
		t.Fatalf("unexpected report %v", summary)
	}
}

func TestSaleValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	// Empty cart cannot settle.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
		"payment_method": "CASH",
		"tendered":       "10.00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}

	// Unknown payment methods are rejected by the request validator.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
		"payment_method": "CHECK",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad method, got %d", rec.Code)
	}

	// Unknown products cannot be added to the cart.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/lines", map[string]any{
		"product_id": uuid.NewString(),
		"quantity":   1,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
}
