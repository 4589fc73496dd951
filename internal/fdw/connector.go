// Package fdw exposes a remote JSON document as rows for a relational
// query engine. A Connector fetches the document once per scan, buffers
// its records and materializes one typed row per pull.
//
// Lifecycle, driven by the host one call at a time:
//
//	Init → BeginScan → IterScan* → EndScan
//
// ReScan and the write path are not supported.
package fdw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Connector is one foreign data wrapper instance. It is not safe for
// concurrent use; the host runs one scan lifecycle at a time.
type Connector struct {
	profile   *Profile
	transport Transport
	logger    *slog.Logger

	session     Session
	initialized bool
}

// New creates a connector for profile. A nil logger discards diagnostics.
func New(profile *Profile, transport Transport, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if transport == nil {
		transport = NewHTTPTransport(0)
	}
	return &Connector{
		profile:   profile,
		transport: transport,
		logger:    logger.With("component", "fdw", "profile", profile.Name),
	}
}

// Profile returns the capability set this connector runs with.
func (c *Connector) Profile() *Profile { return c.profile }

// Session exposes the connector state for inspection.
func (c *Connector) Session() *Session { return &c.session }

// Init reads server-scoped options. base_url falls back to the profile's
// aliases, then to its default.
func (c *Connector) Init(server Options) error {
	if err := c.checkRequired("server", server); err != nil {
		err.Op = "init"
		return err
	}
	opts := make(Options, len(server)+1)
	for k, v := range server {
		opts[k] = v
	}
	for _, alias := range c.profile.BaseURLAliases {
		v, ok := opts[alias]
		if !ok || v == "" {
			continue
		}
		if cur := opts["base_url"]; cur != "" && cur != v {
			return &Error{Kind: ErrConfig, Op: "init", Msg: fmt.Sprintf("options base_url and %s disagree", alias)}
		}
		opts["base_url"] = v
	}
	c.session.BaseURL = strings.TrimRight(opts.RequireOr("base_url", c.profile.DefaultBaseURL), "/")
	opts["base_url"] = c.session.BaseURL
	c.session.Server = opts
	c.initialized = true
	return nil
}

// BeginScan fetches and buffers the source records for one scan.
// Any failure leaves the session empty; a second BeginScan before EndScan
// is rejected and leaves the running scan untouched.
func (c *Connector) BeginScan(ctx context.Context, table Options) error {
	const op = "begin_scan"
	if !c.initialized {
		return newError(ErrConfig, op, "connector is not initialized", nil)
	}
	if c.session.active {
		return newError(ErrNotSupported, op, "a scan is already in progress", nil)
	}
	if err := c.checkRequired("table", table); err != nil {
		err.Op = op
		return err
	}

	req, err := c.profile.BuildRequest(c.session.Server, table)
	if err != nil {
		return asError(err, ErrConfig, op)
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return newError(ErrTransport, op, req.Method+" "+req.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(ErrTransport, op, fmt.Sprintf("http %d: %s", resp.StatusCode, snippet(resp.Body)), nil)
	}

	records, err := c.profile.Unwrap(table, resp.Body)
	if err != nil {
		return asError(err, ErrProtocol, op)
	}

	c.session.start(records)
	c.logger.Info("fetched source records", "count", len(records), "url", req.URL)
	return nil
}

// IterScan materializes the record under the cursor into a row with one
// cell per requested column, in request order. It returns ok=false once
// all records are consumed, and keeps doing so without side effects.
func (c *Connector) IterScan(columns []Column) (row Row, ok bool, err error) {
	const op = "iter_scan"
	record, ok := c.session.current()
	if !ok {
		return nil, false, nil
	}

	row = make(Row, 0, len(columns))
	for _, col := range columns {
		coerce, supported := c.profile.Coercions[col.Type]
		if !supported {
			return nil, false, &Error{
				Kind:   ErrUnsupportedType,
				Op:     op,
				Column: col.Name,
				Msg:    fmt.Sprintf("data type %s is not supported", col.Type),
			}
		}

		src, found := c.profile.locate(record, col)
		if !found {
			row = append(row, nil)
			continue
		}

		cell, err := coerce(src)
		if err != nil {
			e := asError(err, ErrParse, op)
			e.Column = col.Name
			return nil, false, e
		}
		row = append(row, cell)
	}

	c.session.advance()
	return row, true, nil
}

// ReScan restarting a scan without refetching is not supported.
func (c *Connector) ReScan() error {
	return newError(ErrNotSupported, "re_scan", "re_scan on foreign table is not supported", nil)
}

// EndScan releases the buffered records. Server configuration is kept.
func (c *Connector) EndScan() error {
	c.session.clear()
	return nil
}

// BeginModify rejects every write transaction.
func (c *Connector) BeginModify(table Options) error {
	return newError(ErrNotSupported, "begin_modify", "modify on foreign table is not supported", nil)
}

// Insert is unreachable because BeginModify always fails.
func (c *Connector) Insert(row Row) error { return nil }

// Update is unreachable because BeginModify always fails.
func (c *Connector) Update(rowID Cell, row Row) error { return nil }

// Delete is unreachable because BeginModify always fails.
func (c *Connector) Delete(rowID Cell) error { return nil }

// EndModify closes a write transaction that can never have started.
func (c *Connector) EndModify() error { return nil }

func (c *Connector) checkRequired(scope string, opts Options) *Error {
	for _, f := range c.profile.Options {
		if f.Scope != scope || !f.Required {
			continue
		}
		if _, err := opts.Require(f.Key); err != nil {
			var e *Error
			errors.As(err, &e)
			return e
		}
	}
	return nil
}

// asError returns err as an *Error tagged with op, wrapping foreign errors
// under the fallback kind.
func asError(err error, fallback error, op string) *Error {
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" || e.Op == "options" {
			e.Op = op
		}
		return e
	}
	var unknown *UnknownProfileError
	if errors.As(err, &unknown) {
		fallback = ErrConfig
	}
	return newError(fallback, op, "", err)
}

func snippet(body []byte) string {
	const max = 1024
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
