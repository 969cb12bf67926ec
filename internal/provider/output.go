package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OutputKind tags which variant of Output is populated.
type OutputKind int

const (
	OutputEmpty OutputKind = iota
	OutputText
	OutputObject
	OutputList
)

func (k OutputKind) String() string {
	switch k {
	case OutputText:
		return "text"
	case OutputObject:
		return "object"
	case OutputList:
		return "list"
	default:
		return "empty"
	}
}

// Output is the provider's heterogeneous task output: free text, a JSON object or a JSON list.
// Exactly one of Text, Object or List is meaningful, selected by Kind.
type Output struct {
	Kind   OutputKind
	Text   string
	Object map[string]any
	List   []any
}

// TextOutput wraps free-form text.
func TextOutput(s string) Output {
	return Output{Kind: OutputText, Text: s}
}

// ObjectOutput wraps an already decoded JSON object.
func ObjectOutput(m map[string]any) Output {
	if m == nil {
		return Output{}
	}
	return Output{Kind: OutputObject, Object: m}
}

// ListOutput wraps an already decoded JSON array.
func ListOutput(items []any) Output {
	if items == nil {
		return Output{}
	}
	return Output{Kind: OutputList, List: items}
}

// IsEmpty reports whether the provider produced nothing usable.
func (o Output) IsEmpty() bool {
	switch o.Kind {
	case OutputText:
		return o.Text == ""
	case OutputObject:
		return len(o.Object) == 0
	case OutputList:
		return len(o.List) == 0
	default:
		return true
	}
}

// Preview returns at most n bytes of the output rendered as text, for logging.
func (o Output) Preview(n int) string {
	var s string
	switch o.Kind {
	case OutputText:
		s = o.Text
	case OutputObject:
		b, _ := json.Marshal(o.Object)
		s = string(b)
	case OutputList:
		b, _ := json.Marshal(o.List)
		s = string(b)
	}
	if n > 0 && len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// DecodeOutput classifies a raw JSON value into an Output.
// A JSON string becomes text output even when it itself contains JSON; unwrapping that is the
// extractor's job.
func DecodeOutput(raw json.RawMessage) (Output, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Output{}, nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Output{}, fmt.Errorf("decode text output: %w", err)
		}
		return TextOutput(s), nil
	case '{':
		var m map[string]any
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return Output{}, fmt.Errorf("decode object output: %w", err)
		}
		return ObjectOutput(m), nil
	case '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Output{}, fmt.Errorf("decode list output: %w", err)
		}
		return ListOutput(items), nil
	default:
		// numbers and booleans carry no leads; keep their text for diagnostics
		return TextOutput(string(trimmed)), nil
	}
}
