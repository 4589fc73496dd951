package fdw

import (
	"fmt"
	"strings"
	"time"
)

// ── Target types ───────────────────────────────────────────
// Type tags the query engine declares for foreign table columns.

// TypeOID identifies the declared type of a target column.
type TypeOID int

const (
	TypeUnknown TypeOID = iota
	TypeBool
	TypeI8
	TypeI16
	TypeF32
	TypeI32
	TypeF64
	TypeI64
	TypeNumeric
	TypeString
	TypeDate
	TypeTimestamp
	TypeTimestamptz
	TypeJSON
	TypeUUID
)

var typeNames = map[TypeOID]string{
	TypeUnknown:     "unknown",
	TypeBool:        "bool",
	TypeI8:          "char",
	TypeI16:         "smallint",
	TypeF32:         "real",
	TypeI32:         "integer",
	TypeF64:         "double precision",
	TypeI64:         "bigint",
	TypeNumeric:     "numeric",
	TypeString:      "text",
	TypeDate:        "date",
	TypeTimestamp:   "timestamp",
	TypeTimestamptz: "timestamptz",
	TypeJSON:        "jsonb",
	TypeUUID:        "uuid",
}

func (t TypeOID) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// typeAliases maps Postgres-style type names to tags.
var typeAliases = map[string]TypeOID{
	"bool":                        TypeBool,
	"boolean":                     TypeBool,
	"char":                        TypeI8,
	"smallint":                    TypeI16,
	"int2":                        TypeI16,
	"real":                        TypeF32,
	"float4":                      TypeF32,
	"int":                         TypeI32,
	"integer":                     TypeI32,
	"int4":                        TypeI32,
	"double precision":            TypeF64,
	"float8":                      TypeF64,
	"float":                       TypeF64,
	"bigint":                      TypeI64,
	"int8":                        TypeI64,
	"numeric":                     TypeNumeric,
	"decimal":                     TypeNumeric,
	"text":                        TypeString,
	"varchar":                     TypeString,
	"character varying":           TypeString,
	"string":                      TypeString,
	"date":                        TypeDate,
	"timestamp":                   TypeTimestamp,
	"timestamp without time zone": TypeTimestamp,
	"timestamptz":                 TypeTimestamptz,
	"timestamp with time zone":    TypeTimestamptz,
	"json":                        TypeJSON,
	"jsonb":                       TypeJSON,
	"uuid":                        TypeUUID,
}

// ParseTypeOID resolves a declared column type name.
func ParseTypeOID(name string) (TypeOID, error) {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	return TypeUnknown, newError(ErrUnsupportedType, "options", fmt.Sprintf("unknown column type %q", name), nil)
}

// Column describes one requested target column.
// Num is the 1-based position of the column in the foreign table.
type Column struct {
	Num  int
	Name string
	Type TypeOID
}

// ── Cells ──────────────────────────────────────────────────
// Cell is a tagged union over the supported target values.
// A nil Cell inside a Row marks an absent (NULL) value.

// Cell is one typed value in a target row.
type Cell interface {
	Type() TypeOID
	Value() any
}

type (
	Bool      bool
	I32       int32
	I64       int64
	F64       float64
	String    string
	JSON      string
	Timestamp time.Time
)

func (Bool) Type() TypeOID      { return TypeBool }
func (I32) Type() TypeOID       { return TypeI32 }
func (I64) Type() TypeOID       { return TypeI64 }
func (F64) Type() TypeOID       { return TypeF64 }
func (String) Type() TypeOID    { return TypeString }
func (JSON) Type() TypeOID      { return TypeJSON }
func (Timestamp) Type() TypeOID { return TypeTimestamp }

func (c Bool) Value() any      { return bool(c) }
func (c I32) Value() any       { return int32(c) }
func (c I64) Value() any       { return int64(c) }
func (c F64) Value() any       { return float64(c) }
func (c String) Value() any    { return string(c) }
func (c JSON) Value() any      { return string(c) }
func (c Timestamp) Value() any { return time.Time(c) }

// Row is one materialized target row, one cell per requested column.
type Row []Cell

// Values unwraps the row into plain Go values, nil for absent cells.
func (r Row) Values() []any {
	out := make([]any, len(r))
	for i, c := range r {
		if c != nil {
			out[i] = c.Value()
		}
	}
	return out
}
