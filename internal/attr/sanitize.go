// Package attr normalizes node and edge attribute values into the small set of
// shapes a text-based graph interchange format can carry: string, int64,
// float64 and bool. Containers are flattened to compact JSON text.
package attr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"coursekg/kgraph/internal/errs"
)

// Field is one named attribute in export order.
type Field struct {
	Key   string
	Value any
}

// Mapper is implemented by records that export themselves as a key/value mapping.
type Mapper interface {
	AttrMap() map[string]any
}

// Sanitize converts v into a portable scalar. Rules, in order:
//
//  1. numeric-library scalars (sized ints, float32, json.Number, math/big) unwrap to int64/float64,
//     falling back to their text when they do not fit
//  2. gonum vectors and matrices become the JSON text of the equivalent nested list
//  3. mappings have every value sanitized, then become JSON text
//  4. sequences have every element sanitized, then become JSON text
//  5. absent values (nil, nil pointers) become ""
//  6. string, int64, float64 and bool pass through
//  7. anything else becomes its fmt.Sprint text
//
// Nested containers are normalized recursively and encoded once, at the top.
// Inside containers a float always keeps a fraction or exponent (1.0, not 1)
// and non-finite floats are written as the strings "NaN", "+Inf" and "-Inf".
// Sanitize is idempotent and never mutates v.
func Sanitize(v any) (any, error) {
	n, err := normalize(v)
	if err != nil {
		return nil, err
	}
	switch n.(type) {
	case []any, map[string]any:
		return Encode(n)
	}
	return n, nil
}

// SanitizeFields returns a parallel, sanitized copy of fields.
func SanitizeFields(fields []Field) ([]Field, error) {
	out := make([]Field, len(fields))
	for i, f := range fields {
		v, err := Sanitize(f.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", f.Key, err)
		}
		out[i] = Field{Key: f.Key, Value: v}
	}
	return out, nil
}

// normalize applies the rule set but leaves containers as []any / map[string]any trees.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return "", nil

	case string, int64, float64, bool:
		return x, nil
	case int:
		return int64(x), nil

	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		return unsignedScalar(uint64(x)), nil
	case uint64:
		return unsignedScalar(x), nil
	case float32:
		return float64(x), nil
	case json.Number:
		return numberScalar(x), nil
	case *big.Int:
		if x == nil {
			return "", nil
		}
		if x.IsInt64() {
			return x.Int64(), nil
		}
		return x.String(), nil
	case *big.Float:
		if x == nil {
			return "", nil
		}
		f, _ := x.Float64()
		return f, nil
	case *big.Rat:
		if x == nil {
			return "", nil
		}
		if f, exact := x.Float64(); exact {
			return f, nil
		}
		return x.RatString(), nil

	case *string:
		if x == nil {
			return "", nil
		}
		return *x, nil
	case *int:
		if x == nil {
			return "", nil
		}
		return int64(*x), nil
	case *int64:
		if x == nil {
			return "", nil
		}
		return *x, nil
	case *float64:
		if x == nil {
			return "", nil
		}
		return *x, nil
	case *bool:
		if x == nil {
			return "", nil
		}
		return *x, nil

	case mat.Vector:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = x.AtVec(i)
		}
		return out, nil
	case mat.Matrix:
		r, c := x.Dims()
		rows := make([]any, r)
		for i := 0; i < r; i++ {
			row := make([]any, c)
			for j := 0; j < c; j++ {
				row[j] = x.At(i, j)
			}
			rows[i] = row
		}
		return rows, nil

	case Mapper:
		return normalizeMap(x.AttrMap())
	case map[string]any:
		return normalizeMap(x)
	case map[string]string:
		m := make(map[string]any, len(x))
		for k, s := range x {
			m[k] = s
		}
		return m, nil

	case []any:
		return normalizeSeq(x)
	case []string:
		return toAny(x), nil
	case []int:
		out := make([]any, len(x))
		for i, n := range x {
			out[i] = int64(n)
		}
		return out, nil
	case []int64:
		return toAny(x), nil
	case []float64:
		return toAny(x), nil
	case []bool:
		return toAny(x), nil

	case fmt.Stringer:
		return x.String(), nil
	case error:
		return x.Error(), nil
	}
	return fmt.Sprint(v), nil
}

func normalizeMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		n, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}

func normalizeSeq(s []any) ([]any, error) {
	out := make([]any, len(s))
	for i, v := range s {
		n, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func unsignedScalar(u uint64) any {
	if u <= 1<<63-1 {
		return int64(u)
	}
	return new(big.Int).SetUint64(u).String()
}

// numberScalar keeps integer literals as int64 and anything written with a
// fraction or exponent as float64.
func numberScalar(n json.Number) any {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// jsonReal is a container leaf that always encodes as a real literal.
type jsonReal float64

func (f jsonReal) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	format := byte('f')
	if abs := math.Abs(v); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, v, format, -1, 64)
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, '.', '0')
	}
	return b, nil
}

// reals wraps the float64 leaves of a normalized tree.
func reals(v any) any {
	switch x := v.(type) {
	case float64:
		return jsonReal(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = reals(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k := range x {
			out[k] = reals(x[k])
		}
		return out
	}
	return v
}

// Encode renders v as compact JSON without HTML escaping.
func Encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(reals(v)); err != nil {
		return "", errs.Wrap(errs.UnsupportedFormat, "encode attribute", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
