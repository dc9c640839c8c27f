// Package objects provides helpers over JSON-shaped values: the
// map[string]any, []any and scalar trees produced by encoding/json and
// yaml.v3.
package objects

import "math"

// IsFalsy reports whether v is nil, false, "", or NaN. Zero numbers and
// empty containers are not falsy.
func IsFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// IsVoid reports whether v is nil or the empty string.
func IsVoid(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// Clean returns a shallow copy of m without its void values. A nil map
// yields an empty one.
func Clean(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if IsVoid(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of v. Maps and slices are copied recursively;
// every other value is returned as is.
func Clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		if x == nil {
			return x
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Clone(e)
		}
		return out
	case map[string]string:
		if x == nil {
			return x
		}
		out := make(map[string]string, len(x))
		for k, e := range x {
			out[k] = e
		}
		return out
	case []string:
		if x == nil {
			return x
		}
		return append([]string(nil), x...)
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

// Merge deep-merges source into a copy of target and returns the copy.
// Neither argument is modified.
//
// For a key present on both sides: two slices are concatenated, two maps
// are merged recursively, and anything else takes the source value.
func Merge(target, source map[string]any) map[string]any {
	out := cloneMap(target)
	if out == nil {
		out = make(map[string]any, len(source))
	}

	for k, sv := range source {
		tv, ok := out[k]
		if !ok {
			out[k] = Clone(sv)
			continue
		}

		switch t := tv.(type) {
		case []any:
			if s, ok := sv.([]any); ok {
				merged := make([]any, 0, len(t)+len(s))
				merged = append(merged, t...)
				for _, e := range s {
					merged = append(merged, Clone(e))
				}
				out[k] = merged
				continue
			}
		case map[string]any:
			if s, ok := sv.(map[string]any); ok {
				out[k] = Merge(t, s)
				continue
			}
		}
		out[k] = Clone(sv)
	}
	return out
}
