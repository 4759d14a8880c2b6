package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmapunto/pos-backend/api/controllers"
	poscontrollers "github.com/farmapunto/pos-backend/api/controllers/pos"
	shiftcontrollers "github.com/farmapunto/pos-backend/api/controllers/shifts"
	"github.com/farmapunto/pos-backend/api/middleware"
	"github.com/farmapunto/pos-backend/internal/pos"
	"github.com/farmapunto/pos-backend/internal/shifts"
	"github.com/farmapunto/pos-backend/pkg/config"
	"github.com/farmapunto/pos-backend/pkg/db"
	"github.com/farmapunto/pos-backend/pkg/logger"
	"github.com/farmapunto/pos-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface of the POS backend.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	posService pos.Service,
	shiftService shifts.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, cfg.POS.IdempotencyTTL, logg))

		r.Route("/pos", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", poscontrollers.CartFetch(posService, logg))
				r.Delete("/", poscontrollers.CartClear(posService, logg))
				r.Post("/lines", poscontrollers.CartAddLine(posService, logg))
				r.Patch("/lines/{lineID}", poscontrollers.CartSetQuantity(posService, logg))
				r.Delete("/lines/{lineID}", poscontrollers.CartRemoveLine(posService, logg))
				r.Put("/customer", poscontrollers.CartAttachCustomer(posService, logg))
				r.Delete("/customer", poscontrollers.CartDetachCustomer(posService, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", poscontrollers.PaymentAdd(posService, logg))
				r.Delete("/", poscontrollers.PaymentsClear(posService, logg))
			})

			r.Route("/sale", func(r chi.Router) {
				r.Post("/hold", poscontrollers.SaleHold(posService, logg))
				r.Post("/resume/{saleID}", poscontrollers.SaleResume(posService, logg))
				r.Post("/complete", poscontrollers.SaleComplete(posService, logg))
				r.Post("/cancel", poscontrollers.SaleCancel(posService, logg))
			})

			r.Get("/held-sales", poscontrollers.HeldSalesList(posService, logg))
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/open", shiftcontrollers.ShiftOpen(shiftService, logg))
			r.Post("/close", shiftcontrollers.ShiftClose(shiftService, logg))
			r.Post("/returns", shiftcontrollers.ShiftRecordReturn(shiftService, logg))
			r.Get("/current", shiftcontrollers.ShiftCurrent(shiftService, logg))
		})
	})

	return r
}
