package router

import (
	"net/http"

	"github.com/advcompro/garage-dashboard/internal/auth"
	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/http/handler"
	"github.com/advcompro/garage-dashboard/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/advcompro/garage-dashboard/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	sessionGate      *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	metricsHandler   http.Handler
	healthHandler    *handler.HealthHandler
	sessionHandler   *handler.SessionHandler
	customerHandler  *handler.CustomerHandler
	mechanicHandler  *handler.MechanicHandler
	reportHandler    *handler.ReportHandler
	dashboardHandler *handler.DashboardHandler
}

// NewRouter wires the dashboard API. metricsHandler may be nil.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	sessionGate *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	metricsHandler http.Handler,
	healthHandler *handler.HealthHandler,
	sessionHandler *handler.SessionHandler,
	customerHandler *handler.CustomerHandler,
	mechanicHandler *handler.MechanicHandler,
	reportHandler *handler.ReportHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		sessionGate:      sessionGate,
		rateLimiter:      rateLimiter,
		metricsHandler:   metricsHandler,
		healthHandler:    healthHandler,
		sessionHandler:   sessionHandler,
		customerHandler:  customerHandler,
		mechanicHandler:  mechanicHandler,
		reportHandler:    reportHandler,
		dashboardHandler: dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	r.Use(middleware.Deadline(rt.cfg.Server.RequestTimeoutDuration()))

	r.Get("/health", rt.healthHandler.Live)
	r.Get("/health/ready", rt.healthHandler.Ready)

	if rt.metricsHandler != nil {
		path := rt.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, rt.metricsHandler)
	}

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Session gate (public)
		r.Route("/session", func(r chi.Router) {
			r.Get("/", rt.sessionHandler.Status)
			r.With(rt.rateLimiter.LimitUnlock).Post("/unlock", rt.sessionHandler.Unlock)
			r.With(rt.sessionGate.RequireUnlocked, middleware.SessionLogging).Post("/lock", rt.sessionHandler.Lock)
		})

		// Unlocked routes
		r.Group(func(r chi.Router) {
			r.Use(rt.sessionGate.RequireUnlocked)
			r.Use(middleware.SessionLogging)

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Post("/", rt.customerHandler.Create)
				r.Put("/", rt.customerHandler.ReplaceAll)
				r.Post("/refresh", rt.customerHandler.Refresh)
				r.Post("/at/{position}/toggle", rt.customerHandler.ToggleAt)
				r.Get("/{id}", rt.customerHandler.GetByID)
				r.Delete("/{id}", rt.customerHandler.Delete)
				r.Post("/{id}/toggle", rt.customerHandler.Toggle)
			})

			r.Route("/mechanics", func(r chi.Router) {
				r.Get("/", rt.mechanicHandler.List)
				r.Post("/", rt.mechanicHandler.Create)
				r.Post("/refresh", rt.mechanicHandler.Refresh)
				r.Delete("/{id}", rt.mechanicHandler.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", rt.reportHandler.Generate)
				r.Get("/cached", rt.reportHandler.Cached)
			})

			r.Get("/dashboard", rt.dashboardHandler.Summary)
		})
	})

	return r
}
