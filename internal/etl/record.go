package etl

import (
	"encoding/json"

	"sheetsfdw/internal/fdw"
)

// ── Record ─────────────────────────────────────────────────
// Presentation form of scanned rows for JSON consumers (MCP tools,
// `scan --output json`). Absent cells are kept as null and JSON cells are
// embedded rather than quoted.

// Field describes a single column in a dataset.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema describes the shape of a scan result.
type Schema struct {
	Fields []Field `json:"fields"`
}

// SchemaOf builds a schema from scan columns.
func SchemaOf(columns []fdw.Column) *Schema {
	fields := make([]Field, len(columns))
	for i, col := range columns {
		fields[i] = Field{Name: col.Name, Type: col.Type.String()}
	}
	return &Schema{Fields: fields}
}

// FieldNames returns an ordered list of field names.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Record is a single row keyed by column name.
type Record map[string]any

// ToRecords converts rows into records.
func ToRecords(columns []fdw.Column, rows []fdw.Row) []Record {
	out := make([]Record, len(rows))
	for i, row := range rows {
		rec := make(Record, len(columns))
		for j, col := range columns {
			var v any
			if j < len(row) && row[j] != nil {
				v = row[j].Value()
				if js, ok := row[j].(fdw.JSON); ok {
					v = json.RawMessage(js)
				}
			}
			rec[col.Name] = v
		}
		out[i] = rec
	}
	return out
}
