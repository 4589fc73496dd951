package profiles

import (
	"fmt"
	"strings"

	"sheetsfdw/internal/fdw"
)

// ── Generic REST ────────────────────────────────────────────
// Reads an endpoint that answers with a bare JSON array of objects,
// e.g. https://api.github.com/users/octocat/repos. Cells are keyed by
// column name.

// RESTDefaultBaseURL is the API root used when base_url is unset.
const RESTDefaultBaseURL = "https://api.github.com"

func init() { fdw.RegisterProfile(REST()) }

// REST returns the generic JSON array profile.
func REST() *fdw.Profile {
	return &fdw.Profile{
		Name:           "rest",
		Label:          "REST JSON array",
		DefaultBaseURL: RESTDefaultBaseURL,
		Options: []fdw.OptionField{
			{Key: "base_url", Scope: "server", Default: RESTDefaultBaseURL, Help: "API root"},
			{Key: "object", Scope: "table", Required: true, Help: "Path below base_url, e.g. users/octocat/repos"},
		},
		BuildRequest: buildRESTRequest,
		Unwrap:       unwrapRESTArray,
		Locate:       fdw.LocateKeyed,
		Coercions: fdw.Coercions{
			fdw.TypeBool:        fdw.CoerceBool,
			fdw.TypeString:      fdw.CoerceString,
			fdw.TypeI64:         fdw.CoerceI64,
			fdw.TypeF64:         fdw.CoerceF64,
			fdw.TypeTimestamp:   fdw.CoerceTimestamp,
			fdw.TypeTimestamptz: fdw.CoerceTimestamp,
			fdw.TypeJSON:        fdw.CoerceJSONObject,
		},
	}
}

func buildRESTRequest(server, table fdw.Options) (*fdw.Request, error) {
	object, err := table.Require("object")
	if err != nil {
		return nil, err
	}
	return &fdw.Request{
		Method:  "GET",
		URL:     fmt.Sprintf("%s/%s", server["base_url"], strings.TrimLeft(object, "/")),
		Headers: map[string]string{"user-agent": "Example FDW"},
	}, nil
}

func unwrapRESTArray(_ fdw.Options, body []byte) ([]any, error) {
	doc, err := fdw.DecodeJSON(body)
	if err != nil {
		return nil, err
	}
	return fdw.RecordsAt(doc, "")
}
