package bravia

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Result is the normalized outcome of a decoded control call. Exactly one
// of Flat or Nested is populated, matching the shape the caller asked
// for; both are nil for ShapeNone.
type Result struct {
	Flat   map[string]any
	Nested []map[string]any
}

// normalizeResult flattens the two documented result layouts into a
// uniform representation. It never mutates the raw payload.
func normalizeResult(raw json.RawMessage, shape ResultShape) (*Result, error) {
	if shape == ShapeNone {
		return &Result{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("result is not an array: %w", err)
	}

	switch shape {
	case ShapeFlat:
		// result holds a single mapping as its only element
		if len(elements) < 1 {
			return nil, fmt.Errorf("empty result for flat decode")
		}
		var flat map[string]any
		if err := json.Unmarshal(elements[0], &flat); err != nil {
			return nil, fmt.Errorf("flat result element is not a mapping: %w", err)
		}
		return &Result{Flat: flat}, nil

	case ShapeNested:
		// result is [_, [mapping, ...]]; the second element carries the
		// payload. Some firmware versions drop the leading element and
		// return the list directly.
		var payload json.RawMessage
		switch len(elements) {
		case 0:
			return nil, fmt.Errorf("empty result for nested decode")
		case 1:
			payload = elements[0]
		default:
			payload = elements[1]
		}
		var nested []map[string]any
		if err := json.Unmarshal(payload, &nested); err != nil {
			return nil, fmt.Errorf("nested result element is not a mapping list: %w", err)
		}
		return &Result{Nested: nested}, nil

	default:
		return nil, fmt.Errorf("unknown result shape %d", shape)
	}
}

// asString coerces a decoded JSON value to a printable form. Mapping
// values may be string, number or bool; callers treat them
// polymorphically.
func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// asInt coerces a decoded JSON value to an integer, tolerating the
// string-typed numbers some firmware versions return
func asInt(v any) (int, bool) {
	switch value := v.(type) {
	case float64:
		return int(value), true
	case string:
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// asBool coerces a decoded JSON value to a bool
func asBool(v any) (bool, bool) {
	switch value := v.(type) {
	case bool:
		return value, true
	case string:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}
