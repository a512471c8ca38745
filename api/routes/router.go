package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vortexsales/pos-backend/api/controllers"
	"github.com/vortexsales/pos-backend/api/middleware"
	cartsvc "github.com/vortexsales/pos-backend/internal/cart"
	catalogsvc "github.com/vortexsales/pos-backend/internal/catalog"
	"github.com/vortexsales/pos-backend/internal/report"
	"github.com/vortexsales/pos-backend/internal/settlement"
	"github.com/vortexsales/pos-backend/pkg/config"
	"github.com/vortexsales/pos-backend/pkg/db"
	"github.com/vortexsales/pos-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	client *db.Client,
	registry *prometheus.Registry,
	catalogService catalogsvc.Service,
	cartService cartsvc.Service,
	reportService report.Service,
	engine *settlement.Engine,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, client, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(catalogService, logg))
		r.Post("/", controllers.UpsertProduct(catalogService, logg))
		r.Get("/search", controllers.SearchProducts(catalogService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", controllers.GetCart(cartService, logg))
		r.Delete("/", controllers.ClearCart(cartService, logg))
		r.Post("/lines", controllers.AddCartLine(cartService, logg))
		r.Delete("/lines/{lineID}", controllers.RemoveCartLine(cartService, logg))
	})

	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Post("/", controllers.CreateSale(engine, cartService, logg))
		r.Get("/report", controllers.DailyReport(reportService, logg))
	})

	return r
}
