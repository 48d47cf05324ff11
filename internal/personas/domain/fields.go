package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Age accepts a JSON number or a numeric string ("34"). An empty string or
// null decodes to zero, which means "unknown".
type Age int

func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("age: %q is not a whole number", s)
		}
		*a = Age(n)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("age: %w", err)
	}
	*a = Age(math.Round(f))
	return nil
}

// StringList is the canonical form of goals and pain points. Clients may
// send either a list of strings or a single string; a string is split into
// one item per non-blank line. It always encodes as a JSON array.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = splitLines(s)
		return nil
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}

	out := make(StringList, 0, len(raw))
	for _, item := range raw {
		var s string
		switch v := item.(type) {
		case string:
			s = v
		case nil:
			continue
		case float64, bool:
			s = fmt.Sprint(v)
		default:
			return fmt.Errorf("expected a list of strings, got element of type %T", item)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func splitLines(s string) StringList {
	out := StringList{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
