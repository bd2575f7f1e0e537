package engine

import (
	"maps"

	"github.com/opmodel/geodeploy/internal/core"
)

// Well-known property keys shared by every resource kind.
const (
	PropName     = "name"
	PropID       = "id"
	PropLocation = "location"
	PropTags     = "tags"
)

// Properties is the property bag of a resource: inputs sent to the engine or
// outputs reported back by it. Nested objects are map[string]any and lists
// are []any.
type Properties map[string]any

// Lookup walks path through nested maps.
func (p Properties) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(p)
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string at path.
func (p Properties) String(path ...string) (string, bool) {
	v, ok := p.Lookup(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set assigns value at path, creating intermediate maps as needed.
func (p Properties) Set(value any, path ...string) {
	if len(path) == 0 {
		return
	}
	cur := map[string]any(p)
	for _, key := range path[:len(path)-1] {
		next, ok := asMap(cur[key])
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// DeepCopy returns a copy of p that shares no maps or slices with it.
func (p Properties) DeepCopy() Properties {
	if p == nil {
		return nil
	}
	return Properties(deepCopyMap(p))
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Properties:
		return m, true
	default:
		return nil, false
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case Properties:
		return Properties(deepCopyMap(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case core.Tags:
		return val.Clone()
	case map[string]string:
		return maps.Clone(val)
	default:
		return val
	}
}
