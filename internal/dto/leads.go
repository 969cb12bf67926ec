package dto

import "github.com/octobees/maps-leads/api/internal/entity"

// LeadsRequest is the payload accepted by POST /api/leads.
type LeadsRequest struct {
	Query        string `json:"query"`
	NumLeads     int    `json:"num_leads,omitempty"`
	RequireEmail bool   `json:"require_email,omitempty"`
	// Email is the caller's notification address; it is validated and echoed back.
	Email string `json:"email,omitempty"`
}

// LeadsResponse is the data section returned on success.
type LeadsResponse struct {
	Query        string        `json:"query"`
	Count        int           `json:"count"`
	RequireEmail bool          `json:"require_email"`
	Email        string        `json:"email,omitempty"`
	Leads        []entity.Lead `json:"leads"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status             string `json:"status"`
	Service            string `json:"service"`
	ProviderConfigured bool   `json:"provider_configured"`
	AuthRequired       bool   `json:"auth_required"`
}
