package profiles_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsfdw/internal/fdw"
	"sheetsfdw/internal/fdw/profiles"
	"sheetsfdw/internal/testutil"
)

type cannedTransport struct {
	body string
	req  *fdw.Request
}

func (c *cannedTransport) Do(_ context.Context, req *fdw.Request) (*fdw.Response, error) {
	c.req = req
	return &fdw.Response{StatusCode: http.StatusOK, Body: []byte(c.body)}, nil
}

// ─────────────────────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────────────────────

func TestRegistry_AllProfilesRegistered(t *testing.T) {
	var names []string
	for _, p := range fdw.ListProfiles() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"gsheets", "rest", "square"}, names)

	p, err := fdw.GetProfile("gsheets")
	require.NoError(t, err)
	assert.Equal(t, profiles.SheetsDefaultBaseURL, p.DefaultBaseURL)
}

func TestRegistry_UnknownProfile(t *testing.T) {
	_, err := fdw.GetProfile("airtable")
	require.Error(t, err)
	assert.ErrorIs(t, err, fdw.ErrConfig)

	var unknown *fdw.UnknownProfileError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Available, "gsheets")
}

// ─────────────────────────────────────────────────────────────
// rest
// ─────────────────────────────────────────────────────────────

func TestREST_KeyedRows(t *testing.T) {
	body := `[
		{"id": 1296269, "name": "Hello-World", "fork": false, "stargazers_count": 80,
		 "created_at": "2011-01-26T19:01:12Z", "owner": {"login": "octocat"}, "topics": ["a"]},
		{"id": 2, "name": null}
	]`
	tr := &cannedTransport{body: body}
	c := fdw.New(profiles.REST(), tr, testutil.NewTestLogger(t))
	require.NoError(t, c.Init(fdw.Options{}))

	rows, err := fdw.Scan(context.Background(), c, fdw.Options{"object": "users/octocat/repos"}, []fdw.Column{
		{Num: 1, Name: "id", Type: fdw.TypeI64},
		{Num: 2, Name: "name", Type: fdw.TypeString},
		{Num: 3, Name: "fork", Type: fdw.TypeBool},
		{Num: 4, Name: "created_at", Type: fdw.TypeTimestamptz},
		{Num: 5, Name: "owner", Type: fdw.TypeJSON},
		{Num: 6, Name: "topics", Type: fdw.TypeJSON},
		{Num: 7, Name: "missing", Type: fdw.TypeString},
	}, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "https://api.github.com/users/octocat/repos", tr.req.URL)
	assert.Equal(t, "Example FDW", tr.req.Headers["user-agent"])

	created := time.Date(2011, 1, 26, 19, 1, 12, 0, time.UTC)
	assert.Equal(t, fdw.I64(1296269), rows[0][0])
	assert.Equal(t, fdw.String("Hello-World"), rows[0][1])
	assert.Equal(t, fdw.Bool(false), rows[0][2])
	assert.True(t, created.Equal(time.Time(rows[0][3].(fdw.Timestamp))))
	assert.Equal(t, fdw.JSON(`{"login":"octocat"}`), rows[0][4])
	assert.Nil(t, rows[0][5], "arrays are not JSON objects")
	assert.Nil(t, rows[0][6])

	assert.Equal(t, fdw.Row{fdw.I64(2), nil, nil, nil, nil, nil, nil}, rows[1])
}

func TestREST_RejectsNonArray(t *testing.T) {
	c := fdw.New(profiles.REST(), &cannedTransport{body: `{"message":"Not Found"}`}, nil)
	require.NoError(t, c.Init(fdw.Options{}))
	err := c.BeginScan(context.Background(), fdw.Options{"object": "nope"})
	assert.ErrorIs(t, err, fdw.ErrProtocol)
}

func TestREST_BadTimestampFailsRow(t *testing.T) {
	c := fdw.New(profiles.REST(), &cannedTransport{body: `[{"at":"yesterday"}]`}, nil)
	require.NoError(t, c.Init(fdw.Options{}))
	require.NoError(t, c.BeginScan(context.Background(), fdw.Options{"object": "x"}))

	_, ok, err := c.IterScan([]fdw.Column{{Num: 1, Name: "at", Type: fdw.TypeTimestamp}})
	assert.False(t, ok)
	assert.ErrorIs(t, err, fdw.ErrParse)

	var e *fdw.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "at", e.Column)
	assert.Equal(t, "iter_scan", e.Op)
}

// ─────────────────────────────────────────────────────────────
// square
// ─────────────────────────────────────────────────────────────

func TestSquare_RequiresAccessToken(t *testing.T) {
	c := fdw.New(profiles.Square(), &cannedTransport{}, nil)
	err := c.Init(fdw.Options{})
	assert.ErrorIs(t, err, fdw.ErrConfig)
	assert.Contains(t, err.Error(), "access_token")
}

func TestSquare_OrdersUsesSearch(t *testing.T) {
	body := `{"orders":[{"id":"o1","total_money":{"amount":1500,"currency":"USD"},"version":3}]}`
	tr := &cannedTransport{body: body}
	c := fdw.New(profiles.Square(), tr, nil)
	require.NoError(t, c.Init(fdw.Options{"access_token": "tok"}))

	rows, err := fdw.Scan(context.Background(), c, fdw.Options{"object": "orders"}, []fdw.Column{
		{Num: 1, Name: "id", Type: fdw.TypeString},
		{Num: 2, Name: "total_money", Type: fdw.TypeJSON},
		{Num: 3, Name: "version", Type: fdw.TypeI32},
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, "POST", tr.req.Method)
	assert.Equal(t, "https://connect.squareup.com/v2/orders/search", tr.req.URL)
	assert.Equal(t, "Bearer tok", tr.req.Headers["Authorization"])
	assert.JSONEq(t, `{"limit": 100}`, tr.req.Body)

	require.Len(t, rows, 1)
	assert.Equal(t, fdw.String("o1"), rows[0][0])
	assert.JSONEq(t, `{"amount":1500,"currency":"USD"}`, string(rows[0][1].(fdw.JSON)))
	assert.Equal(t, fdw.I32(3), rows[0][2])
}

func TestSquare_EmptyListOmitsKey(t *testing.T) {
	c := fdw.New(profiles.Square(), &cannedTransport{body: `{}`}, nil)
	require.NoError(t, c.Init(fdw.Options{"access_token": "tok"}))
	require.NoError(t, c.BeginScan(context.Background(), fdw.Options{"object": "catalog"}))
	assert.Equal(t, 0, c.Session().Len())
}

func TestSquare_UnknownObject(t *testing.T) {
	tr := &cannedTransport{body: `{}`}
	c := fdw.New(profiles.Square(), tr, nil)
	require.NoError(t, c.Init(fdw.Options{"access_token": "tok"}))

	err := c.BeginScan(context.Background(), fdw.Options{"object": "refunds"})
	assert.ErrorIs(t, err, fdw.ErrConfig)
	assert.Contains(t, err.Error(), "refunds")
	assert.Nil(t, tr.req)
}

func TestSquare_APIURLAlias(t *testing.T) {
	tr := &cannedTransport{body: `{"customers":[{"id":"c1"}]}`}
	c := fdw.New(profiles.Square(), tr, nil)
	require.NoError(t, c.Init(fdw.Options{"access_token": "tok", "api_url": "http://sandbox.local/v2/"}))
	assert.Equal(t, "http://sandbox.local/v2", c.Session().BaseURL)

	require.NoError(t, c.BeginScan(context.Background(), fdw.Options{"object": "customers"}))
	assert.Equal(t, "http://sandbox.local/v2/customers", tr.req.URL)

	c = fdw.New(profiles.Square(), tr, nil)
	err := c.Init(fdw.Options{"access_token": "tok", "api_url": "http://sandbox.local/v2", "base_url": "http://other.local"})
	assert.ErrorIs(t, err, fdw.ErrConfig)
	assert.Contains(t, err.Error(), "api_url")

	c = fdw.New(profiles.Square(), tr, nil)
	require.NoError(t, c.Init(fdw.Options{"access_token": "tok", "api_url": "http://same.local", "base_url": "http://same.local"}))
	assert.Equal(t, "http://same.local", c.Session().BaseURL)
}

func TestSquare_CatalogListsItemsOnly(t *testing.T) {
	tr := &cannedTransport{body: `{"objects":[{"id":"i1","type":"ITEM"}]}`}
	c := fdw.New(profiles.Square(), tr, nil)
	require.NoError(t, c.Init(fdw.Options{"access_token": "tok"}))

	require.NoError(t, c.BeginScan(context.Background(), fdw.Options{"object": "catalog"}))
	assert.Equal(t, "GET", tr.req.Method)
	assert.Equal(t, "https://connect.squareup.com/v2/catalog/list?types=ITEM", tr.req.URL)
	assert.Equal(t, 1, c.Session().Len())
}
