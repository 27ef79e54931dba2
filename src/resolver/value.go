package resolver

import (
	"fmt"
	"reflect"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindScalar
	kindList
	kindMap
)

func (k valueKind) String() string {
	switch k {
	case kindScalar:
		return "scalar"
	case kindList:
		return "list"
	case kindMap:
		return "map"
	default:
		return "null"
	}
}

func kindOf(v any) valueKind {
	if v == nil {
		return kindNull
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return kindList
	case reflect.Map, reflect.Struct:
		return kindMap
	default:
		return kindScalar
	}
}

// cloneValue deep-copies decoded configuration values so callers never share
// mutable state with a loaded Resolver. Maps with non-string keys (as produced
// by some YAML decoders) are normalized to map[string]any.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = e
		}
		return out
	default:
		return v
	}
}

func cloneOptions(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}
