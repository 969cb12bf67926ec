package handler

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/maps-leads/api/internal/config"
	"github.com/octobees/maps-leads/api/internal/dto"
	"github.com/octobees/maps-leads/api/internal/entity"
	"github.com/octobees/maps-leads/api/internal/service"
)

const mimeTextCSV = "text/csv"

// LeadGenerator runs one lead-generation task to completion.
type LeadGenerator interface {
	GenerateLeads(ctx context.Context, q service.LeadQuery) ([]entity.Lead, error)
}

// LeadsHandler serves POST /api/leads.
type LeadsHandler struct {
	generator    LeadGenerator
	defaultCount int
}

// NewLeadsHandler constructs a leads handler. A non-positive defaultCount falls back to 20.
func NewLeadsHandler(generator LeadGenerator, defaultCount int) *LeadsHandler {
	if defaultCount <= 0 || defaultCount > config.MaxLeadsPerRequest {
		defaultCount = 20
	}
	return &LeadsHandler{generator: generator, defaultCount: defaultCount}
}

// Generate validates the request, blocks until the provider task finishes and returns the leads.
func (h *LeadsHandler) Generate(c echo.Context) error {
	var req dto.LeadsRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return Error(c, http.StatusBadRequest, "query is required")
	}

	switch {
	case req.NumLeads <= 0:
		req.NumLeads = h.defaultCount
	case req.NumLeads > config.MaxLeadsPerRequest:
		req.NumLeads = config.MaxLeadsPerRequest
	}

	if raw := strings.TrimSpace(req.Email); raw != "" {
		req.Email = service.NormalizeEmail(raw)
		if req.Email == "" {
			return Error(c, http.StatusBadRequest, "email is invalid")
		}
	}

	leads, err := h.generator.GenerateLeads(c.Request().Context(), service.LeadQuery{
		Query:        req.Query,
		NumLeads:     req.NumLeads,
		RequireEmail: req.RequireEmail,
	})
	if err != nil {
		status, message := errorStatus(err)
		return Error(c, status, message)
	}

	if wantsCSV(c) {
		return writeCSV(c, leads)
	}

	return Success(c, http.StatusOK, fmt.Sprintf("generated %d leads", len(leads)), dto.LeadsResponse{
		Query:        req.Query,
		Count:        len(leads),
		RequireEmail: req.RequireEmail,
		Email:        req.Email,
		Leads:        leads,
	})
}

func errorStatus(err error) (int, string) {
	var providerErr *service.ProviderError
	var extractionErr *service.ExtractionError
	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		return http.StatusBadRequest, "query is required"
	case errors.Is(err, service.ErrProviderNotConfigured):
		return http.StatusServiceUnavailable, "lead provider is not configured"
	case errors.As(err, &providerErr):
		return http.StatusBadGateway, providerErr.Error()
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity, extractionErr.Error()
	default:
		return http.StatusInternalServerError, "failed to generate leads"
	}
}

func wantsCSV(c echo.Context) bool {
	if strings.EqualFold(c.QueryParam("format"), "csv") {
		return true
	}
	return strings.Contains(strings.ToLower(c.Request().Header.Get(echo.HeaderAccept)), mimeTextCSV)
}

func writeCSV(c echo.Context, leads []entity.Lead) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, mimeTextCSV+"; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="leads.csv"`)
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write(entity.CSVHeader); err != nil {
		return err
	}
	for _, lead := range leads {
		if err := w.Write(lead.CSVRecord()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
