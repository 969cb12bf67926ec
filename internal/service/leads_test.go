package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/octobees/maps-leads/api/internal/entity"
	"github.com/octobees/maps-leads/api/internal/logging"
	"github.com/octobees/maps-leads/api/internal/observability/metrics"
	"github.com/octobees/maps-leads/api/internal/provider"
)

type stubClient struct {
	task      *stubTask
	err       error
	submitted []string
}

func (c *stubClient) Submit(_ context.Context, description string) (provider.Task, error) {
	c.submitted = append(c.submitted, description)
	if c.err != nil {
		return nil, c.err
	}
	return c.task, nil
}

type stubTask struct {
	id     string
	result *provider.Result
	err    error
}

func (t *stubTask) ID() string { return t.id }

func (t *stubTask) Await(context.Context) (*provider.Result, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.result, nil
}

func finished(out provider.Output) *stubClient {
	return &stubClient{task: &stubTask{
		id:     "task-1",
		result: &provider.Result{TaskID: "task-1", Status: provider.StatusFinished, Succeeded: true, Output: out},
	}}
}

func newTestService(client provider.Client, opts ...LeadServiceOption) *LeadService {
	opts = append([]LeadServiceOption{
		WithLogger(logging.Discard()),
		WithMetrics(metrics.NewLeadMetrics(prometheus.NewRegistry())),
	}, opts...)
	return NewLeadService(client, opts...)
}

func TestGenerateLeadsEndToEnd(t *testing.T) {
	client := finished(provider.TextOutput(`{"leads":[{"name":"Cafe X","phone":"555  0100","email":"BAD"},{"address":"no name"}]}`))
	svc := newTestService(client)

	leads, err := svc.GenerateLeads(context.Background(), LeadQuery{Query: "Cafes in Singapore", NumLeads: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := entity.Lead{Name: "Cafe X", Address: "", Phone: "555 0100", Website: "", Email: ""}
	if len(leads) != 1 || leads[0] != want {
		t.Fatalf("unexpected leads: %#v", leads)
	}
	if len(client.submitted) != 1 || !strings.Contains(client.submitted[0], "For the first 5 business results") {
		t.Fatalf("expected one submitted task for 5 leads, got %#v", client.submitted)
	}
}

func TestGenerateLeadsWithoutClient(t *testing.T) {
	svc := newTestService(nil)
	if svc.Configured() {
		t.Fatalf("service without client must report unconfigured")
	}

	_, err := svc.GenerateLeads(context.Background(), LeadQuery{Query: "anything"})
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestGenerateLeadsRejectsBlankQuery(t *testing.T) {
	client := finished(provider.TextOutput(`{"leads":[{"name":"A"}]}`))
	_, err := newTestService(client).GenerateLeads(context.Background(), LeadQuery{Query: "   "})
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if len(client.submitted) != 0 {
		t.Fatalf("blank query must not reach the provider")
	}
}

func TestGenerateLeadsEmptyExtractionIsAnError(t *testing.T) {
	outputs := map[string]provider.Output{
		"no leads":      provider.ObjectOutput(map[string]any{"leads": []any{}}),
		"only nameless": provider.ListOutput([]any{map[string]any{"address": "x"}}),
		"prose":         provider.TextOutput("Sorry, Google Maps blocked me."),
		"empty":         {},
	}
	for name, out := range outputs {
		t.Run(name, func(t *testing.T) {
			leads, err := newTestService(finished(out)).GenerateLeads(context.Background(), LeadQuery{Query: "q"})
			if leads != nil {
				t.Fatalf("expected no leads, got %#v", leads)
			}
			var extractionErr *ExtractionError
			if !errors.As(err, &extractionErr) || !errors.Is(err, ErrExtraction) {
				t.Fatalf("expected ExtractionError, got %v", err)
			}
			if extractionErr.TaskID != "task-1" {
				t.Fatalf("expected task id on extraction error, got %+v", extractionErr)
			}
		})
	}
}

func TestGenerateLeadsWarnsOnEmptyOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	svc := newTestService(finished(provider.Output{}), WithLogger(logging.New(logging.Config{Level: "warn", JSON: true, Output: buf})))

	if _, err := svc.GenerateLeads(context.Background(), LeadQuery{Query: "q"}); !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if !strings.Contains(buf.String(), "provider returned no output") {
		t.Fatalf("expected empty output warning, got %s", buf.String())
	}
}

func TestGenerateLeadsWrapsProviderFailures(t *testing.T) {
	cause := errors.New("connection reset")

	t.Run("submit", func(t *testing.T) {
		_, err := newTestService(&stubClient{err: cause}).GenerateLeads(context.Background(), LeadQuery{Query: "q"})
		var providerErr *ProviderError
		if !errors.As(err, &providerErr) || providerErr.Op != "submit" {
			t.Fatalf("expected submit ProviderError, got %v", err)
		}
		if !errors.Is(err, cause) || !errors.Is(err, ErrProvider) {
			t.Fatalf("expected cause and ErrProvider to be preserved, got %v", err)
		}
	})

	t.Run("await", func(t *testing.T) {
		client := &stubClient{task: &stubTask{id: "task-9", err: cause}}
		_, err := newTestService(client).GenerateLeads(context.Background(), LeadQuery{Query: "q"})
		var providerErr *ProviderError
		if !errors.As(err, &providerErr) || providerErr.TaskID != "task-9" || !errors.Is(err, cause) {
			t.Fatalf("expected await ProviderError with cause, got %v", err)
		}
	})

	t.Run("failed status", func(t *testing.T) {
		client := &stubClient{task: &stubTask{
			id:     "task-7",
			result: &provider.Result{TaskID: "task-7", Status: provider.StatusStopped, Output: provider.TextOutput(`{"leads":[{"name":"A"}]}`)},
		}}
		_, err := newTestService(client).GenerateLeads(context.Background(), LeadQuery{Query: "q"})
		var providerErr *ProviderError
		if !errors.As(err, &providerErr) || providerErr.Status != provider.StatusStopped {
			t.Fatalf("expected ProviderError for stopped task, got %v", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		client := &stubClient{task: &stubTask{
			id:     "task-8",
			result: &provider.Result{TaskID: "task-8", Status: provider.Status("exploded")},
		}}
		_, err := newTestService(client).GenerateLeads(context.Background(), LeadQuery{Query: "q"})
		var providerErr *ProviderError
		if !errors.As(err, &providerErr) || providerErr.Status != provider.Status("exploded") {
			t.Fatalf("expected ProviderError for unknown status, got %v", err)
		}
	})
}

func TestGenerateLeadsExtractsFromUnsuccessfulFinish(t *testing.T) {
	client := &stubClient{task: &stubTask{
		id:     "task-3",
		result: &provider.Result{TaskID: "task-3", Status: provider.StatusFinished, Succeeded: false, Output: provider.ListOutput([]any{map[string]any{"name": "A"}})},
	}}
	leads, err := newTestService(client).GenerateLeads(context.Background(), LeadQuery{Query: "q"})
	if err != nil || len(leads) != 1 {
		t.Fatalf("expected leads despite unsuccessful verdict, got %#v (%v)", leads, err)
	}
}

func TestGenerateLeadsTruncatesToRequestedCount(t *testing.T) {
	items := make([]any, 0, 8)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		items = append(items, map[string]any{"name": name})
	}
	leads, err := newTestService(finished(provider.ListOutput(items))).GenerateLeads(context.Background(), LeadQuery{Query: "q", NumLeads: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 3 || leads[2].Name != "C" {
		t.Fatalf("expected first 3 leads, got %#v", leads)
	}
}

func TestGenerateLeadsAppliesPhoneRegion(t *testing.T) {
	client := finished(provider.ListOutput([]any{map[string]any{"name": "A", "phone": "(415) 555-1234"}}))
	leads, err := newTestService(client, WithNormalizer(Normalizer{PhoneRegion: "US"})).GenerateLeads(context.Background(), LeadQuery{Query: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leads[0].Phone != "+1 415-555-1234" {
		t.Fatalf("expected formatted phone, got %q", leads[0].Phone)
	}
}

func TestClampCount(t *testing.T) {
	svc := newTestService(nil, WithDefaultCount(15))
	tests := map[int]int{0: 15, -4: 15, 1: 1, 100: 100, 250: 100, 42: 42}
	for in, want := range tests {
		if got := svc.ClampCount(in); got != want {
			t.Fatalf("ClampCount(%d) = %d, want %d", in, got, want)
		}
	}
	if got := newTestService(nil).ClampCount(0); got != defaultLeadCount {
		t.Fatalf("expected default count %d, got %d", defaultLeadCount, got)
	}
}
