package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/octobees/maps-leads/api/internal/entity"
)

// Sanitizer turns raw candidate records into leads.
type Sanitizer struct {
	Normalizer Normalizer
}

// Sanitize normalizes every candidate and drops those without a name.
// Input order is preserved and duplicates are kept.
func (s Sanitizer) Sanitize(raw []map[string]any) []entity.Lead {
	leads := make([]entity.Lead, 0, len(raw))
	for _, candidate := range raw {
		lead := entity.Lead{
			Name:    textField(candidate, "name"),
			Address: textField(candidate, "address"),
			Phone:   s.Normalizer.Phone(textField(candidate, "phone")),
			Website: s.Normalizer.URL(textField(candidate, "website")),
			Email:   s.Normalizer.Email(textField(candidate, "email")),
		}
		if lead.Name == "" {
			continue
		}
		leads = append(leads, lead)
	}
	return leads
}

// SanitizeLeads runs the default Sanitizer.
func SanitizeLeads(raw []map[string]any) []entity.Lead {
	return Sanitizer{}.Sanitize(raw)
}

// textField reads a scalar field as trimmed text. Missing, null and nested values read as "".
func textField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
