package fdw

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// ── Envelope helpers ───────────────────────────────────────
// Building blocks for Profile.Unwrap implementations.

// StripPrefix removes an exact guard prefix from body.
// A missing prefix means the remote contract changed and is a protocol error.
func StripPrefix(body []byte, prefix string) ([]byte, error) {
	if !bytes.HasPrefix(body, []byte(prefix)) {
		return nil, newError(ErrProtocol, "begin_scan", "invalid response: expected prefix "+strconv.Quote(prefix), nil)
	}
	return body[len(prefix):], nil
}

// DecodeJSON parses a single JSON document, keeping numbers as json.Number
// so integer columns do not lose precision.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, newError(ErrParse, "begin_scan", "malformed JSON response", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, newError(ErrParse, "begin_scan", "unexpected data after JSON document", nil)
	}
	return doc, nil
}

// Pointer resolves a JSON pointer (RFC 6901) such as "/table/rows" against doc.
func Pointer(doc any, path string) (any, bool) {
	if path == "" {
		return doc, true
	}
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	current := doc
	for _, part := range strings.Split(path[1:], "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			current = v[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// RecordsAt returns the array found at path, or a protocol error when the
// path is absent or does not hold an array.
func RecordsAt(doc any, path string) ([]any, error) {
	v, ok := Pointer(doc, path)
	if !ok {
		return nil, newError(ErrProtocol, "begin_scan", "cannot get rows from response at "+path, nil)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, newError(ErrProtocol, "begin_scan", "response value at "+path+" is not an array", nil)
	}
	return arr, nil
}

// ── Cell addressing ────────────────────────────────────────

// LocateAuto picks the addressing strategy from the record's shape:
//
//	{"c": [{"v": ...}, ...]}  positional, value slot of element Num-1
//	[...]                      positional, element Num-1
//	{"name": ...}              keyed by column name
func LocateAuto(record any, col Column) (any, bool) {
	switch r := record.(type) {
	case map[string]any:
		if cells, ok := r["c"].([]any); ok {
			return slotAt(cells, col.Num-1)
		}
		return LocateKeyed(record, col)
	case []any:
		return slotAt(r, col.Num-1)
	}
	return nil, false
}

// LocateKeyed looks the column up by name in an object record.
func LocateKeyed(record any, col Column) (any, bool) {
	obj, ok := record.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[col.Name]
	return v, ok
}

func slotAt(cells []any, i int) (any, bool) {
	if i < 0 || i >= len(cells) {
		return nil, false
	}
	switch c := cells[i].(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := c["v"]
		return v, ok
	default:
		return c, true
	}
}
