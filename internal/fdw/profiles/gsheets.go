package profiles

import (
	"fmt"

	"sheetsfdw/internal/fdw"
)

// ── Google Sheets ───────────────────────────────────────────
// Reads a published spreadsheet through the visualization (gviz) JSON
// export. Rows come back positional: {"c": [{"v": 1.0, "f": "1"}, null, ...]}.

const (
	// SheetsDefaultBaseURL is the spreadsheet host used when base_url is unset.
	SheetsDefaultBaseURL = "https://docs.google.com/spreadsheets/d"

	// sheetsGuardPrefix is the anti-XSSI token prepended to every gviz reply.
	sheetsGuardPrefix = ")]}'\n"
	sheetsRowsPath    = "/table/rows"
	sheetsUserAgent   = "Sheets FDW"
)

func init() { fdw.RegisterProfile(Sheets()) }

// Sheets returns the Google Sheets profile.
func Sheets() *fdw.Profile {
	return &fdw.Profile{
		Name:           "gsheets",
		Label:          "Google Sheets",
		DefaultBaseURL: SheetsDefaultBaseURL,
		Options: []fdw.OptionField{
			{Key: "base_url", Scope: "server", Default: SheetsDefaultBaseURL, Help: "Spreadsheet host"},
			{Key: "sheet_id", Scope: "table", Required: true, Help: "Spreadsheet document ID"},
		},
		BuildRequest: buildSheetsRequest,
		Unwrap:       unwrapSheets,
		Coercions: fdw.Coercions{
			fdw.TypeI64:    fdw.CoerceI64,
			fdw.TypeF64:    fdw.CoerceF64,
			fdw.TypeBool:   fdw.CoerceBool,
			fdw.TypeString: fdw.CoerceString,
		},
	}
}

func buildSheetsRequest(server, table fdw.Options) (*fdw.Request, error) {
	sheetID, err := table.Require("sheet_id")
	if err != nil {
		return nil, err
	}
	return &fdw.Request{
		Method: "GET",
		URL:    fmt.Sprintf("%s/%s/gviz/tq?tqx=out:json", server["base_url"], sheetID),
		Headers: map[string]string{
			"user-agent": sheetsUserAgent,
			// Without it gviz wraps the reply in a JS callback.
			"x-datasource-auth": "true",
		},
	}, nil
}

func unwrapSheets(_ fdw.Options, body []byte) ([]any, error) {
	payload, err := fdw.StripPrefix(body, sheetsGuardPrefix)
	if err != nil {
		return nil, err
	}
	doc, err := fdw.DecodeJSON(payload)
	if err != nil {
		return nil, err
	}
	return fdw.RecordsAt(doc, sheetsRowsPath)
}
