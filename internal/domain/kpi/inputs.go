package kpi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// InputSet maps input field names to scalars: numbers, ISO dates or rating lists.
type InputSet map[string]any

// Has reports whether field carries a usable value. Nil and blank strings count as absent.
func (in InputSet) Has(field string) bool {
	v, ok := in[field]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

func (in InputSet) Clone() InputSet {
	if in == nil {
		return nil
	}
	out := make(InputSet, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (in InputSet) Number(field string) (float64, error) {
	n, ok := toFloat(in[field])
	if !ok {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	return n, nil
}

func (in InputSet) Date(field string) (time.Time, error) {
	switch v := in[field].(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%s must be an ISO date", field)
}

func (in InputSet) Ratings(field string) ([]float64, error) {
	var raw []any
	switch v := in[field].(type) {
	case []any:
		raw = v
	case []float64:
		return append([]float64(nil), v...), nil
	case []int:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a list of ratings", field)
	}
	out := make([]float64, 0, len(raw))
	for i, item := range raw {
		n, ok := toFloat(item)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be numeric", field, i)
		}
		out = append(out, n)
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	f, ok := coerceFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
