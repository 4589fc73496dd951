package fdw

import (
	"encoding/json"
	"math"
	"time"
)

// ── Coercion ───────────────────────────────────────────────
// A Coercer converts a present source value into a target cell.
// It returns (nil, nil) when the value's JSON kind does not match the
// target type: that is sparse data, not a failure. An error is reserved
// for values of the right kind that are still malformed.

// Coercer maps one raw JSON value to a cell.
type Coercer func(v any) (Cell, error)

// Coercions is the per-profile table of supported target types.
type Coercions map[TypeOID]Coercer

// Supports reports whether t has a coercion rule.
func (c Coercions) Supports(t TypeOID) bool {
	_, ok := c[t]
	return ok
}

// CoerceI64 accepts any JSON number and truncates it toward zero.
func CoerceI64(v any) (Cell, error) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return I64(i), nil
		}
	}
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, nil
	}
	return I64(int64(f)), nil
}

// CoerceI32 accepts a JSON number that fits in 32 bits.
func CoerceI32(v any) (Cell, error) {
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) {
		return nil, nil
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil, nil
	}
	return I32(int32(f)), nil
}

// CoerceF64 accepts any JSON number.
func CoerceF64(v any) (Cell, error) {
	f, ok := asFloat(v)
	if !ok {
		return nil, nil
	}
	return F64(f), nil
}

// CoerceBool accepts a JSON boolean.
func CoerceBool(v any) (Cell, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, nil
	}
	return Bool(b), nil
}

// CoerceString accepts a JSON string.
func CoerceString(v any) (Cell, error) {
	s, ok := v.(string)
	if !ok {
		return nil, nil
	}
	return String(s), nil
}

// CoerceJSONObject accepts a JSON object and keeps it as compact JSON text.
func CoerceJSONObject(v any) (Cell, error) {
	if _, ok := v.(map[string]any); !ok {
		return nil, nil
	}
	return CoerceJSONAny(v)
}

// CoerceJSONAny serializes any non-null value as JSON text.
func CoerceJSONAny(v any) (Cell, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, newError(ErrParse, "iter_scan", "encode json cell", err)
	}
	return JSON(b), nil
}

// CoerceTimestamp accepts an RFC 3339 string. A string that does not parse
// is malformed data and fails the row.
func CoerceTimestamp(v any) (Cell, error) {
	s, ok := v.(string)
	if !ok {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, newError(ErrParse, "iter_scan", "invalid RFC3339 timestamp "+s, err)
	}
	return Timestamp(ts), nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
