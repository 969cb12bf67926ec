package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/octobees/maps-leads/api/internal/entity"
	"github.com/octobees/maps-leads/api/internal/logging"
	"github.com/octobees/maps-leads/api/internal/observability/metrics"
	"github.com/octobees/maps-leads/api/internal/provider"
)

const (
	// MaxLeads caps how many leads one request may ask for.
	MaxLeads         = 100
	defaultLeadCount = 20
	outputPreviewLen = 200
)

// LeadQuery is a single lead generation request.
type LeadQuery struct {
	Query        string
	NumLeads     int
	RequireEmail bool
}

// LeadService orchestrates one provider task per request: build the task, submit it, wait,
// then extract and sanitize the result.
type LeadService struct {
	client       provider.Client
	sanitizer    Sanitizer
	metrics      *metrics.LeadMetrics
	logger       logging.Logger
	defaultCount int
}

// LeadServiceOption configures optional dependencies.
type LeadServiceOption func(*LeadService)

// WithNormalizer overrides the field normalizer used by the sanitizer.
func WithNormalizer(n Normalizer) LeadServiceOption {
	return func(s *LeadService) {
		s.sanitizer = Sanitizer{Normalizer: n}
	}
}

// WithMetrics records outcomes and provider latency.
func WithMetrics(m *metrics.LeadMetrics) LeadServiceOption {
	return func(s *LeadService) {
		s.metrics = m
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger logging.Logger) LeadServiceOption {
	return func(s *LeadService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultCount sets num_leads used when the caller does not specify one.
func WithDefaultCount(n int) LeadServiceOption {
	return func(s *LeadService) {
		if n > 0 && n <= MaxLeads {
			s.defaultCount = n
		}
	}
}

// NewLeadService builds the orchestrator. A nil client is allowed and makes every
// call fail with ErrProviderNotConfigured.
func NewLeadService(client provider.Client, opts ...LeadServiceOption) *LeadService {
	s := &LeadService{
		client:       client,
		logger:       logging.Default(),
		defaultCount: defaultLeadCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether a provider client is available.
func (s *LeadService) Configured() bool {
	return s.client != nil
}

// ClampCount resolves the number of leads that will actually be requested.
func (s *LeadService) ClampCount(n int) int {
	switch {
	case n <= 0:
		return s.defaultCount
	case n > MaxLeads:
		return MaxLeads
	default:
		return n
	}
}

// GenerateLeads runs the full pipeline and blocks for the provider's whole run,
// which is usually minutes. It never returns an empty list without an error.
func (s *LeadService) GenerateLeads(ctx context.Context, q LeadQuery) ([]entity.Lead, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.client == nil {
		s.metrics.ObserveOutcome(metrics.OutcomeConfigurationError)
		return nil, ErrProviderNotConfigured
	}

	count := s.ClampCount(q.NumLeads)
	description := BuildTaskDescription(query, count, q.RequireEmail)
	log := s.logger.With("query", query, "num_leads", count, "require_email", q.RequireEmail)
	log.Info("submitting lead task", "description_chars", len(description))

	start := time.Now()
	task, err := s.client.Submit(ctx, description)
	if err != nil {
		s.metrics.ObserveOutcome(metrics.OutcomeProviderError)
		log.Error("provider submit failed", "error", err)
		return nil, &ProviderError{Op: "submit", Err: err}
	}

	log = log.With("task_id", task.ID())
	log.Info("awaiting provider task")

	res, err := task.Await(ctx)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.ObserveProviderTask("error", elapsed.Seconds())
		s.metrics.ObserveOutcome(metrics.OutcomeProviderError)
		log.Error("provider task did not complete", "error", err, "elapsed", elapsed)
		return nil, &ProviderError{Op: "await", TaskID: task.ID(), Err: err}
	}
	s.metrics.ObserveProviderTask(string(res.Status), elapsed.Seconds())

	if res.Status != provider.StatusFinished {
		s.metrics.ObserveOutcome(metrics.OutcomeProviderError)
		log.Error("provider task failed", "status", res.Status, "elapsed", elapsed)
		return nil, &ProviderError{
			Op:     "await",
			TaskID: task.ID(),
			Status: res.Status,
			Err:    fmt.Errorf("task ended with status %s", res.Status),
		}
	}
	if !res.Succeeded {
		log.Warn("provider marked task unsuccessful, extracting anyway")
	}

	log.Info("provider task completed", "status", res.Status, "output_kind", res.Output.Kind.String(), "elapsed", elapsed)
	log.Debug("provider output", "preview", res.Output.Preview(outputPreviewLen))
	if res.Output.IsEmpty() {
		log.Warn("provider returned no output")
	}

	candidates := ExtractLeads(res.Output)
	leads := s.sanitizer.Sanitize(candidates)
	if len(leads) == 0 {
		s.metrics.ObserveOutcome(metrics.OutcomeExtractionError)
		log.Warn("no leads extracted", "candidates", len(candidates))
		return nil, &ExtractionError{TaskID: task.ID(), Candidates: len(candidates)}
	}
	if len(leads) > count {
		leads = leads[:count]
	}

	s.metrics.ObserveOutcome(metrics.OutcomeSuccess)
	s.metrics.ObserveLeadsReturned(len(leads))
	log.Info("leads extracted", "candidates", len(candidates), "leads", len(leads))
	return leads, nil
}
