package fdw_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsfdw/internal/fdw"
)

func TestStripPrefix(t *testing.T) {
	out, err := fdw.StripPrefix([]byte(")]}'\n{}"), ")]}'\n")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))

	_, err = fdw.StripPrefix([]byte(")]}'{}"), ")]}'\n")
	assert.ErrorIs(t, err, fdw.ErrProtocol)
}

func TestDecodeJSON_KeepsNumbers(t *testing.T) {
	doc, err := fdw.DecodeJSON([]byte(`{"n": 9007199254740993}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), doc.(map[string]any)["n"])
}

func TestPointer(t *testing.T) {
	doc := map[string]any{
		"table": map[string]any{"rows": []any{"a", "b"}},
		"a/b":   "slash",
	}
	cases := []struct {
		path string
		want any
		ok   bool
	}{
		{"/table/rows/1", "b", true},
		{"/a~1b", "slash", true},
		{"/table/cols", nil, false},
		{"/table/rows/7", nil, false},
		{"table", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := fdw.Pointer(doc, tc.path)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	root, ok := fdw.Pointer(doc, "")
	assert.True(t, ok)
	assert.Equal(t, doc, root)
}

func TestLocateAuto(t *testing.T) {
	gviz := map[string]any{"c": []any{map[string]any{"v": "x"}, nil, map[string]any{"f": "1"}}}
	arr := []any{"first", "second"}
	obj := map[string]any{"name": "Ada"}

	cases := []struct {
		name   string
		record any
		col    fdw.Column
		want   any
		found  bool
	}{
		{"gviz hit", gviz, fdw.Column{Num: 1}, "x", true},
		{"gviz null cell", gviz, fdw.Column{Num: 2}, nil, false},
		{"gviz no value slot", gviz, fdw.Column{Num: 3}, nil, false},
		{"gviz out of range", gviz, fdw.Column{Num: 4}, nil, false},
		{"array hit", arr, fdw.Column{Num: 2}, "second", true},
		{"array zero position", arr, fdw.Column{Num: 0}, nil, false},
		{"keyed hit", obj, fdw.Column{Num: 9, Name: "name"}, "Ada", true},
		{"keyed miss", obj, fdw.Column{Num: 1, Name: "age"}, nil, false},
		{"scalar record", "nope", fdw.Column{Num: 1}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := fdw.LocateAuto(tc.record, tc.col)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoercers(t *testing.T) {
	cell, err := fdw.CoerceI64(json.Number("1.0"))
	require.NoError(t, err)
	assert.Equal(t, fdw.I64(1), cell)

	cell, err = fdw.CoerceI64(math.Inf(1))
	require.NoError(t, err)
	assert.Nil(t, cell)

	cell, err = fdw.CoerceI32(json.Number("3000000000"))
	require.NoError(t, err)
	assert.Nil(t, cell)

	cell, err = fdw.CoerceI32(json.Number("2147483647.5"))
	require.NoError(t, err)
	assert.Equal(t, fdw.I32(math.MaxInt32), cell, "truncated before the range check")

	cell, err = fdw.CoerceI32(json.Number("-2147483648.9"))
	require.NoError(t, err)
	assert.Equal(t, fdw.I32(math.MinInt32), cell)

	cell, err = fdw.CoerceI32(json.Number("2147483648"))
	require.NoError(t, err)
	assert.Nil(t, cell)

	cell, err = fdw.CoerceF64(json.Number("2.5"))
	require.NoError(t, err)
	assert.Equal(t, fdw.F64(2.5), cell)

	cell, err = fdw.CoerceBool("true")
	require.NoError(t, err)
	assert.Nil(t, cell, "strings are not booleans")

	cell, err = fdw.CoerceString(json.Number("5"))
	require.NoError(t, err)
	assert.Nil(t, cell, "numbers are not strings")

	cell, err = fdw.CoerceJSONAny([]any{json.Number("1"), "a"})
	require.NoError(t, err)
	assert.Equal(t, fdw.JSON(`[1,"a"]`), cell)

	_, err = fdw.CoerceTimestamp("2024-13-01")
	assert.ErrorIs(t, err, fdw.ErrParse)
}

func TestParseTypeOID(t *testing.T) {
	typ, err := fdw.ParseTypeOID("bigint")
	require.NoError(t, err)
	assert.Equal(t, fdw.TypeI64, typ)

	typ, err = fdw.ParseTypeOID("TEXT")
	require.NoError(t, err)
	assert.Equal(t, fdw.TypeString, typ)

	_, err = fdw.ParseTypeOID("geometry")
	assert.ErrorIs(t, err, fdw.ErrUnsupportedType)
}

func TestSatisfiesCaret(t *testing.T) {
	cases := []struct {
		constraint, version string
		want                bool
	}{
		{"^0.1.0", "0.1.0", true},
		{"^0.1.0", "0.1.9", true},
		{"^0.1.0", "0.2.0", false},
		{"^0.1.0", "0.0.9", false},
		{"^1.2.0", "1.9.0", true},
		{"^1.2.0", "2.0.0", false},
		{"^0.0.3", "0.0.4", false},
	}
	for _, tc := range cases {
		got, err := fdw.SatisfiesCaret(tc.constraint, tc.version)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s vs %s", tc.constraint, tc.version)
	}

	_, err := fdw.SatisfiesCaret("~0.1.0", "0.1.0")
	assert.Error(t, err)

	assert.NoError(t, fdw.CheckHostVersion("0.1.4"))
	assert.ErrorIs(t, fdw.CheckHostVersion("1.0.0"), fdw.ErrNotSupported)
}
