package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"sheetsfdw/internal/etl"
	"sheetsfdw/internal/fdw"
)

// Output formats understood by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

func validOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table or json)", format)
}

func renderRows(w io.Writer, columns []fdw.Column, rows []fdw.Row, format string) error {
	if format == OutputJSON {
		return renderJSON(w, etl.ToRecords(columns, rows))
	}
	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	body := make([]table.Row, len(rows))
	for i, row := range rows {
		r := make(table.Row, len(columns))
		for j := range columns {
			var cell fdw.Cell
			if j < len(row) {
				cell = row[j]
			}
			r[j] = formatCell(cell)
		}
		body[i] = r
	}
	renderTable(w, header, body)
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderTable(w io.Writer, header table.Row, rows []table.Row) {
	if len(rows) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatCell(c fdw.Cell) string {
	switch v := c.(type) {
	case nil:
		return "NULL"
	case fdw.Timestamp:
		return time.Time(v).UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(c.Value())
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
