package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/maps-leads/api/internal/auth"
	"github.com/octobees/maps-leads/api/internal/config"
	"github.com/octobees/maps-leads/api/internal/handler"
	middlewarepkg "github.com/octobees/maps-leads/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Leads  *handler.LeadsHandler
	Status *handler.StatusHandler
}

// Options carries the optional pieces of the route table.
type Options struct {
	// Tokens enables bearer-token auth on lead generation when non-nil.
	Tokens *auth.TokenManager
	// Gatherer backs GET /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers, opts Options) {
	e.GET("/healthz", handler.Health)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/status", handlers.Status.Status)

	leadsMiddleware := []echo.MiddlewareFunc{middlewarepkg.RateLimiter(cfg.RateLimitLeads)}
	if opts.Tokens != nil {
		leadsMiddleware = append(leadsMiddleware,
			middlewarepkg.Token(opts.Tokens),
			middlewarepkg.RequireScope(auth.ScopeGenerateLeads),
		)
	}
	api.POST("/leads", handlers.Leads.Generate, leadsMiddleware...)
}
