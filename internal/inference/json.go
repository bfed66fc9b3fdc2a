package inference

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// InferValue classifies an arbitrary decoded JSON value for the named field.
// Objects recurse into child fields (sorted by name for deterministic
// output); arrays of objects recurse into the first element and wrap in
// nested. Arrays of scalars classify as the element's own type, since a
// nested wrapper around a scalar has no representable child properties.
func InferValue(name string, v any, opts Options) Field {
	switch val := v.(type) {
	case nil:
		return Field{Name: name, Type: TypeKeyword, NullValue: NullSentinel}
	case bool:
		if IsSensitiveName(name) {
			return Field{Name: name, Type: TypeKeyword}
		}
		return Field{Name: name, Type: TypeBoolean}
	case float64:
		if IsSensitiveName(name) {
			return Field{Name: name, Type: TypeKeyword}
		}
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return Field{Name: name, Type: TypeInteger}
		}
		return Field{Name: name, Type: TypeFloat}
	case int64:
		if IsSensitiveName(name) {
			return Field{Name: name, Type: TypeKeyword}
		}
		return Field{Name: name, Type: TypeInteger}
	case string:
		return inferJSONString(name, val, opts)
	case map[string]any:
		return Field{Name: name, Type: TypeObject, Fields: inferChildren(val, opts)}
	case []any:
		if len(val) == 0 {
			return Field{Name: name, Type: TypeKeyword}
		}
		elem := InferValue(name, val[0], opts)
		if elem.Type == TypeObject {
			return Field{Name: name, Type: TypeNested, Fields: elem.Fields}
		}
		return elem
	default:
		return Field{Name: name, Type: TypeKeyword}
	}
}

// inferJSONString applies the scalar rules but keeps JSON strings stringy:
// a quoted "30" stays a keyword, since the producer chose a string type.
func inferJSONString(name, val string, opts Options) Field {
	val = strings.TrimSpace(val)
	if val == "" {
		return Field{Name: name, Type: TypeKeyword, NullValue: NullSentinel}
	}
	if IsSensitiveName(name) {
		return Field{Name: name, Type: TypeKeyword}
	}
	if hasDateName(name) && parsesAsDate(val) {
		return Field{Name: name, Type: TypeDate}
	}
	if len(val) > opts.threshold() {
		return Field{Name: name, Type: TypeText}
	}
	return Field{Name: name, Type: TypeKeyword}
}

func inferChildren(obj map[string]any, opts Options) []Field {
	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, k := range names {
		fields = append(fields, InferValue(k, obj[k], opts))
	}
	return fields
}

// String renders a field as name:type, with children in braces. Used in
// debug logs only.
func (f Field) String() string {
	if len(f.Fields) == 0 {
		return fmt.Sprintf("%s:%s", f.Name, f.Type)
	}
	parts := make([]string, len(f.Fields))
	for i, c := range f.Fields {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s:%s{%s}", f.Name, f.Type, strings.Join(parts, ", "))
}
