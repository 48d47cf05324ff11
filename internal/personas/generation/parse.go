package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/persona-lab/persona-backend/internal/personas/domain"
)

// ErrInvalidResponse marks an AI answer that is not a persona array or an
// object with a "personas" array.
var ErrInvalidResponse = errors.New("invalid response format from AI service")

// parsePersonas accepts either a bare JSON array of personas or an object
// whose "personas" field is such an array. Only the outer shape is strict:
// each persona object is coerced field by field, and array items that are
// not objects are skipped and counted.
func parsePersonas(text string) (personas []domain.Input, skipped int, err error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}

	var raw json.RawMessage
	switch data[0] {
	case '[':
		raw = data
	case '{':
		var wrapper struct {
			Personas json.RawMessage `json:"personas"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		raw = bytes.TrimSpace(wrapper.Personas)
		if len(raw) == 0 || raw[0] != '[' {
			return nil, 0, fmt.Errorf("%w: missing personas array", ErrInvalidResponse)
		}
	default:
		return nil, 0, fmt.Errorf("%w: not JSON", ErrInvalidResponse)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	personas = make([]domain.Input, 0, len(items))
	for _, item := range items {
		in, ok := coerceInput(item)
		if !ok {
			skipped++
			continue
		}
		personas = append(personas, in)
	}
	if len(items) > 0 && len(personas) == 0 {
		return nil, skipped, fmt.Errorf("%w: no persona objects", ErrInvalidResponse)
	}
	return personas, skipped, nil
}

// coerceInput maps one persona object onto Input. It reports false when
// item is not a JSON object.
func coerceInput(item json.RawMessage) (domain.Input, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return domain.Input{}, false
	}
	return domain.Input{
		Name:       coerceText(fields["name"]),
		Age:        coerceAge(fields["age"]),
		Occupation: coerceText(fields["occupation"]),
		Location:   coerceText(fields["location"]),
		Background: coerceText(fields["background"]),
		Goals:      coerceList(fields["goals"]),
		PainPoints: coerceList(fields["painPoints"]),
	}, true
}

// coerceAge falls back to 0 (unknown) for ages like "mid 30s".
func coerceAge(raw json.RawMessage) domain.Age {
	var a domain.Age
	if len(raw) == 0 || a.UnmarshalJSON(raw) != nil {
		return 0
	}
	return a
}

func coerceText(raw json.RawMessage) string {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return flatten(v)
}

func coerceList(raw json.RawMessage) domain.StringList {
	if len(raw) == 0 {
		return nil
	}
	var l domain.StringList
	if l.UnmarshalJSON(raw) == nil {
		return l
	}

	var v any
	if json.Unmarshal(raw, &v) != nil {
		return nil
	}
	var out domain.StringList
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := flatten(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := flatten(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// flatten renders any decoded JSON value as text. Objects contribute their
// values in key order, so {"goal":"Ship"} becomes "Ship".
func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := flatten(t[k]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
