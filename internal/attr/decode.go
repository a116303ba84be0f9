package attr

import (
	"encoding/json"
	"strings"

	"coursekg/kgraph/internal/errs"
)

// DecodeList decodes an attribute produced by Sanitize from a sequence.
// Integer literals come back as int64, literals with a fraction or exponent
// as float64.
func DecodeList(s string) ([]any, error) {
	v, err := decode(s)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, errs.E(errs.UnsupportedFormat, "decode list", "value is %T, not a list", v)
	}
	return list, nil
}

// DecodeMap decodes an attribute produced by Sanitize from a mapping.
func DecodeMap(s string) (map[string]any, error) {
	v, err := decode(s)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errs.E(errs.UnsupportedFormat, "decode map", "value is %T, not a mapping", v)
	}
	return m, nil
}

func decode(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errs.Wrap(errs.UnsupportedFormat, "decode attribute", err)
	}
	if dec.More() {
		return nil, errs.E(errs.UnsupportedFormat, "decode attribute", "trailing data after value")
	}
	return numbers(v), nil
}

// numbers replaces json.Number leaves with native scalars.
func numbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		return numberScalar(x)
	case []any:
		for i := range x {
			x[i] = numbers(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = numbers(x[k])
		}
		return x
	}
	return v
}
