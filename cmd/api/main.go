package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/octobees/maps-leads/api/internal/auth"
	"github.com/octobees/maps-leads/api/internal/config"
	"github.com/octobees/maps-leads/api/internal/handler"
	"github.com/octobees/maps-leads/api/internal/logging"
	middlewarepkg "github.com/octobees/maps-leads/api/internal/middleware"
	"github.com/octobees/maps-leads/api/internal/observability/metrics"
	"github.com/octobees/maps-leads/api/internal/provider"
	"github.com/octobees/maps-leads/api/internal/provider/browseruse"
	"github.com/octobees/maps-leads/api/internal/router"
	"github.com/octobees/maps-leads/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogFormat != "text"})

	var client provider.Client
	if cfg.Provider.Configured() {
		buClient, err := browseruse.NewClient(cfg.Provider.APIKey,
			browseruse.WithBaseURL(cfg.Provider.BaseURL),
			browseruse.WithPollInterval(cfg.Provider.PollInterval),
			browseruse.WithWaitTimeout(cfg.Provider.Timeout),
			browseruse.WithLogger(logger.With("component", "browseruse")),
		)
		if err != nil {
			log.Fatalf("failed to create provider client: %v", err)
		}
		client = buClient
	} else {
		logger.Warn("BROWSER_USE_API_KEY not set, lead generation will answer 503")
	}

	leadMetrics := metrics.NewLeadMetrics(prometheus.DefaultRegisterer)
	leadService := service.NewLeadService(client,
		service.WithNormalizer(service.Normalizer{PhoneRegion: cfg.PhoneRegion}),
		service.WithMetrics(leadMetrics),
		service.WithLogger(logger.With("component", "leads")),
		service.WithDefaultCount(cfg.DefaultLeadCount),
	)

	var tokens *auth.TokenManager
	if cfg.TokenSecret != "" {
		tokens = auth.NewTokenManager(cfg.TokenSecret, 0)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echoMiddleware.CORS())
	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger.With("component", "http")))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Leads:  handler.NewLeadsHandler(leadService, cfg.DefaultLeadCount),
		Status: handler.NewStatusHandler(leadService.Configured(), tokens != nil),
	}, router.Options{Tokens: tokens})

	// Lead requests block for the provider's whole run.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Provider.Timeout + time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.Port, "provider_configured", leadService.Configured(), "auth_required", tokens != nil)
		serverErr <- e.StartServer(server)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
