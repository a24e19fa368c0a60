package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kiepon/store-backend/internal/domain"
	"github.com/Kiepon/store-backend/internal/service"
	"github.com/Kiepon/store-backend/pkg/health"
	"github.com/Kiepon/store-backend/pkg/middleware"
)

// RouterConfig holds the dependencies and settings for the HTTP router.
type RouterConfig struct {
	ReviewService  *service.ReviewService
	PaymentService *service.PaymentService
	HealthHandler  *health.Handler
	TokenValidator middleware.TokenValidator
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
	ServiceName    string
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all store routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	}

	// Health check and metrics endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authn := middleware.Auth(cfg.TokenValidator)

	// Review API endpoints
	reviewHandler := NewReviewHandler(cfg.ReviewService, cfg.Logger)

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", reviewHandler.ListReviews)
		r.Get("/products/{productID}", reviewHandler.ListProductReviews)

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.With(middleware.RequireRole(domain.RoleBuyer)).Post("/", reviewHandler.CreateReview)
			r.Delete("/{reviewID}", reviewHandler.DeleteReview)
		})
	})

	// Payment API endpoints
	paymentHandler := NewPaymentHandler(cfg.PaymentService, cfg.Logger)

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)

		r.Post("/", paymentHandler.CreatePayment)
		r.Get("/{paymentID}", paymentHandler.GetPayment)
	})

	return r
}
