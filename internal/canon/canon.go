package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Canonicalize returns a canonical copy of v.
//
// nil (including nil pointers, maps and slices) becomes nil, primitives are
// returned unchanged, slices and arrays are canonicalized element-wise in their
// original order, and maps are rebuilt as map[string]any with canonical values.
// Structs are converted through their JSON representation so struct tags are
// honored. Key ordering is applied when the value is serialized.
func Canonicalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t
	case map[string]any:
		if t == nil {
			return nil
		}

		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Canonicalize(e)
		}

		return out
	case []any:
		if t == nil {
			return nil
		}

		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Canonicalize(e)
		}

		return out
	}

	return canonicalizeReflect(reflect.ValueOf(v))
}

func canonicalizeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return Canonicalize(rv.Elem().Interface())

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}

		out := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			out[mapKeyString(iter.Key())] = Canonicalize(iter.Value().Interface())
		}

		return out

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}

		fallthrough

	case reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Canonicalize(rv.Index(i).Interface())
		}

		return out

	case reflect.Struct:
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return rv.Interface()
		}

		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return rv.Interface()
		}

		return Canonicalize(generic)

	case reflect.String:
		return rv.String()

	case reflect.Bool:
		return rv.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()

	case reflect.Float32, reflect.Float64:
		return rv.Float()

	default:
		return rv.Interface()
	}
}

func mapKeyString(k reflect.Value) string {
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10)
	default:
		return fmt.Sprint(k.Interface())
	}
}

// MarshalCanonical serializes the canonical form of v as compact JSON with
// object keys sorted at every level.
func MarshalCanonical(v any) ([]byte, error) {
	return encode(Canonicalize(v), "")
}

// ToCanonicalText returns the deterministic text form of v.
// Values JSON cannot represent (NaN, channels, funcs) fall back to their %v
// rendering so hashing never fails.
func ToCanonicalText(v any) string {
	data, err := MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", Canonicalize(v))
	}

	return string(data)
}

// ToPrettyText renders the canonical form of v as two-space indented JSON.
func ToPrettyText(v any) (string, error) {
	data, err := encode(Canonicalize(v), "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render canonical value: %w", err)
	}

	return string(data), nil
}

// Fingerprint returns a non-cryptographic hash of the canonical text of v as
// 16 lowercase hex digits.
func Fingerprint(v any) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(ToCanonicalText(v)))
}

// Equal reports whether a and b are deep-equal ignoring object key order.
// Array order is significant.
func Equal(a, b any) bool {
	return ToCanonicalText(a) == ToCanonicalText(b)
}

// SortedKeys returns the keys of m in lexicographic order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// SortValues returns a copy of vs ordered by canonical text. The sort is
// stable, so equal elements keep their relative order.
func SortValues(vs []any) []any {
	texts := make([]string, len(vs))
	idx := make([]int, len(vs))

	for i, v := range vs {
		texts[i] = ToCanonicalText(v)
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool { return texts[idx[a]] < texts[idx[b]] })

	out := make([]any, len(vs))
	for i, j := range idx {
		out[i] = vs[j]
	}

	return out
}

func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
