package profiles

import (
	"fmt"

	"sheetsfdw/internal/fdw"
)

// ── Square ──────────────────────────────────────────────────
// Reads Square Connect v2 list endpoints. Each object type lives at its
// own path and returns records under its own key. The catalog object is
// limited to ITEM entries. Read path only.

// SquareDefaultBaseURL is the Square API root used when base_url is unset.
const SquareDefaultBaseURL = "https://connect.squareup.com/v2"

type squareObject struct {
	path    string
	method  string
	body    string
	dataKey string
}

var squareObjects = map[string]squareObject{
	"customers": {path: "customers", method: "GET", dataKey: "customers"},
	"invoices":  {path: "invoices", method: "GET", dataKey: "invoices"},
	"payments":  {path: "payments", method: "GET", dataKey: "payments"},
	"orders":    {path: "orders/search", method: "POST", body: `{"limit": 100}`, dataKey: "orders"},
	"catalog":   {path: "catalog/list?types=ITEM", method: "GET", dataKey: "objects"},
}

func init() { fdw.RegisterProfile(Square()) }

// Square returns the Square profile.
func Square() *fdw.Profile {
	return &fdw.Profile{
		Name:           "square",
		Label:          "Square",
		DefaultBaseURL: SquareDefaultBaseURL,
		BaseURLAliases: []string{"api_url"},
		Options: []fdw.OptionField{
			{Key: "base_url", Scope: "server", Default: SquareDefaultBaseURL, Help: "API root"},
			{Key: "api_url", Scope: "server", Help: "Alias of base_url"},
			{Key: "access_token", Scope: "server", Required: true, Help: "OAuth access token (use secret:<key>)"},
			{Key: "object", Scope: "table", Required: true, Help: "customers | invoices | payments | orders | catalog"},
		},
		BuildRequest: buildSquareRequest,
		Unwrap:       unwrapSquare,
		Locate:       fdw.LocateKeyed,
		Coercions: fdw.Coercions{
			fdw.TypeBool:        fdw.CoerceBool,
			fdw.TypeString:      fdw.CoerceString,
			fdw.TypeI32:         fdw.CoerceI32,
			fdw.TypeI64:         fdw.CoerceI64,
			fdw.TypeF64:         fdw.CoerceF64,
			fdw.TypeJSON:        fdw.CoerceJSONAny,
			fdw.TypeTimestamp:   fdw.CoerceTimestamp,
			fdw.TypeTimestamptz: fdw.CoerceTimestamp,
		},
	}
}

func buildSquareRequest(server, table fdw.Options) (*fdw.Request, error) {
	token, err := server.Require("access_token")
	if err != nil {
		return nil, err
	}
	name, err := table.Require("object")
	if err != nil {
		return nil, err
	}
	obj, ok := squareObjects[name]
	if !ok {
		return nil, &fdw.Error{Kind: fdw.ErrConfig, Msg: fmt.Sprintf("unknown object type: %s", name)}
	}
	return &fdw.Request{
		Method: obj.method,
		URL:    fmt.Sprintf("%s/%s", server["base_url"], obj.path),
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
			"Content-Type":  "application/json",
			"Accept":        "application/json",
		},
		Body: obj.body,
	}, nil
}

// unwrapSquare returns the list stored under the object's data key.
// Square omits the key entirely when a list is empty.
func unwrapSquare(table fdw.Options, body []byte) ([]any, error) {
	doc, err := fdw.DecodeJSON(body)
	if err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &fdw.Error{Kind: fdw.ErrProtocol, Msg: "response is not a JSON object"}
	}
	dataKey := squareObjects[table["object"]].dataKey
	if _, present := obj[dataKey]; !present || dataKey == "" {
		return []any{}, nil
	}
	return fdw.RecordsAt(doc, "/"+dataKey)
}
