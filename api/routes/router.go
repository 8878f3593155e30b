package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calderwood/conreg-backend/api/controllers"
	"github.com/calderwood/conreg-backend/api/middleware"
	"github.com/calderwood/conreg-backend/internal/admins"
	"github.com/calderwood/conreg-backend/internal/conventions"
	"github.com/calderwood/conreg-backend/internal/offerings"
	"github.com/calderwood/conreg-backend/internal/orders"
	"github.com/calderwood/conreg-backend/internal/registrations"
	"github.com/calderwood/conreg-backend/pkg/config"
	"github.com/calderwood/conreg-backend/pkg/db"
	"github.com/calderwood/conreg-backend/pkg/logger"
	"github.com/calderwood/conreg-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	conventionsSvc conventions.Service,
	offeringsSvc offerings.Service,
	ordersSvc orders.Service,
	registrationsSvc registrations.Service,
	adminsSvc admins.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/auth/login", controllers.Login(adminsSvc, logg))

		r.With(middleware.OptionalAdmin(cfg.JWT, logg)).
			Get("/offerings", controllers.ListOfferings(offeringsSvc, conventionsSvc, logg))

		r.Post("/order-items", controllers.SubmitOrderItem(ordersSvc, conventionsSvc, logg))
		r.Post("/payments/callback", controllers.PaymentCallback(ordersSvc, conventionsSvc, cfg.Payments, logg))

		r.Route("/orders/{orderUUID}", func(r chi.Router) {
			r.Post("/finalize", controllers.FinalizeOrder(ordersSvc, conventionsSvc, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(cfg.JWT, logg))
				r.Post("/pay", controllers.PayOrder(ordersSvc, conventionsSvc, logg))
				r.Post("/cancel", controllers.CancelOrder(ordersSvc, conventionsSvc, logg))
				r.Post("/refund", controllers.RefundOrder(ordersSvc, conventionsSvc, logg))
			})
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.JWT, logg))
			r.Get("/", controllers.SearchRegistrations(registrationsSvc, conventionsSvc, logg))
			r.Get("/report", controllers.RegistrationsReport(registrationsSvc, conventionsSvc, logg))
		})
	})

	return r
}
