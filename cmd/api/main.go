package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vortexsales/pos-backend/api/routes"
	cartsvc "github.com/vortexsales/pos-backend/internal/cart"
	"github.com/vortexsales/pos-backend/internal/catalog"
	"github.com/vortexsales/pos-backend/internal/ledger"
	"github.com/vortexsales/pos-backend/internal/receipt"
	"github.com/vortexsales/pos-backend/internal/report"
	"github.com/vortexsales/pos-backend/internal/settlement"
	"github.com/vortexsales/pos-backend/pkg/config"
	"github.com/vortexsales/pos-backend/pkg/db"
	"github.com/vortexsales/pos-backend/pkg/logger"
	"github.com/vortexsales/pos-backend/pkg/metrics"
	"github.com/vortexsales/pos-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	settlementMetrics := metrics.NewSettlementMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	reportService, err := report.NewService(ledgerService)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	receiptWriter, err := receipt.NewWriter(cfg.POS.ReceiptDir)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt writer", err)
		os.Exit(1)
	}

	engine, err := settlement.NewEngine(settlement.Params{
		Tx:          dbClient,
		CatalogRepo: catalogRepo,
		LedgerRepo:  ledgerRepo,
		Writer:      receiptWriter,
		Metrics:     settlementMetrics,
		Logger:      logg,
		CompanyName: cfg.POS.CompanyName,
		TaxID:       cfg.POS.TaxID,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement engine", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, registry, catalogService, cartService, reportService, engine),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
