package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/octobees/maps-leads/api/internal/provider"
)

// Greedy on purpose: spans from the first brace before "leads" to the last closing brace.
var leadsObjectPattern = regexp.MustCompile(`(?s)\{.*"leads".*\}`)

const maxEmbeddedScans = 64

// ExtractLeads pulls the raw candidate list out of a provider output. It never fails:
// anything it cannot interpret yields an empty list.
func ExtractLeads(out provider.Output) []map[string]any {
	switch out.Kind {
	case provider.OutputObject:
		if items, ok := out.Object["leads"].([]any); ok {
			return candidateMaps(items)
		}
		return nil
	case provider.OutputList:
		return candidateMaps(out.List)
	case provider.OutputText:
		return extractFromText(out.Text)
	default:
		return nil
	}
}

func extractFromText(text string) []map[string]any {
	if match := leadsObjectPattern.FindString(text); match != "" {
		if items, ok := leadsFromJSON(match); ok {
			return candidateMaps(items)
		}
	}

	if items, ok := leadsFromJSON(stripCodeFence(text)); ok {
		return candidateMaps(items)
	}

	// Prose sometimes carries several brace groups, which defeats the greedy match.
	if items, ok := scanEmbeddedLeads(text); ok {
		return candidateMaps(items)
	}
	return nil
}

// leadsFromJSON accepts either {"leads": [...]} or a bare array.
func leadsFromJSON(s string) ([]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, false
	}
	switch v := decoded.(type) {
	case map[string]any:
		items, ok := v["leads"].([]any)
		return items, ok
	case []any:
		return v, true
	default:
		return nil, false
	}
}

// scanEmbeddedLeads decodes the first balanced JSON object, starting at a brace, that
// carries a "leads" list. Objects that decode without one are skipped whole, and at most
// maxEmbeddedScans decode attempts are made.
func scanEmbeddedLeads(text string) ([]any, bool) {
	offset := 0
	for attempt := 0; attempt < maxEmbeddedScans; attempt++ {
		next := strings.IndexByte(text[offset:], '{')
		if next < 0 {
			break
		}
		offset += next

		dec := json.NewDecoder(strings.NewReader(text[offset:]))
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			offset++
			continue
		}
		if items, ok := obj["leads"].([]any); ok {
			return items, true
		}
		offset += int(dec.InputOffset())
	}
	return nil, false
}

func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "```")
	}
	return strings.TrimSuffix(strings.TrimSpace(t), "```")
}

func candidateMaps(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
