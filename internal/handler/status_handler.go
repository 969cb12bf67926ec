package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/maps-leads/api/internal/dto"
)

// ServiceName is reported by the status endpoint.
const ServiceName = "maps-leads-api"

// StatusHandler reports whether the service can reach a provider.
type StatusHandler struct {
	providerConfigured bool
	authRequired       bool
}

// NewStatusHandler constructs a status handler.
func NewStatusHandler(providerConfigured, authRequired bool) *StatusHandler {
	return &StatusHandler{providerConfigured: providerConfigured, authRequired: authRequired}
}

// Status handles GET /api/status. The provider credential is never echoed.
func (h *StatusHandler) Status(c echo.Context) error {
	return Success(c, http.StatusOK, "service running", dto.StatusResponse{
		Status:             "ok",
		Service:            ServiceName,
		ProviderConfigured: h.providerConfigured,
		AuthRequired:       h.authRequired,
	})
}

// Health handles GET /healthz.
func Health(c echo.Context) error {
	return Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
}
