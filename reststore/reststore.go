// Package reststore is a goldbook.Store talking to the shop's REST backend.
//
// Collections are read from:
//
//	/gold-ledger/   /money-ledger/   /capitals/   /customers/
//
// and single records from <collection><id>/. Every request carries the
// bearer token. List responses may wrap the collection in an envelope, it is
// then extracted with a JSONPath expression such as "$.results".
package reststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/goldbook"
)

// Client is a goldbook.Store over HTTP.
type Client struct {
	BaseURL  string
	Token    string
	DataPath string         // JSONPath of collections in list responses, "$" or empty for none.
	Location *time.Location // of dates without a zone, defaults to time.Local.
	HTTP     *http.Client
}

// New returns a client of the backend at baseURL.
func New(baseURL, token, dataPath string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		DataPath: dataPath,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

func collection(unit goldbook.Unit) string {
	if unit == goldbook.Money {
		return "/money-ledger/"
	}
	return "/gold-ledger/"
}

func item(coll string, id int64) string { return fmt.Sprintf("%s%d/", coll, id) }

// do sends a JSON request and decodes the JSON response into out, if any.
// Numbers are kept as json.Number so that decimals survive the trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	goldbook.Logger().WithField("status", resp.StatusCode).Debugf("%s %s", method, path)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("cannot http %s %s: %w", method, path, goldbook.ErrNotFound)
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cannot http %s %s: %v %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(out)
}

// list gets a collection, extracts it from its envelope and decodes it into out.
func (c *Client) list(ctx context.Context, path string, out any) error {
	var jobj any
	if err := c.do(ctx, http.MethodGet, path, nil, &jobj); err != nil {
		return err
	}
	if c.DataPath != "" && c.DataPath != "$" {
		jval, err := jsonpath.Get(c.DataPath, jobj)
		if err != nil {
			return fmt.Errorf("cannot extract %q from %s: %w", c.DataPath, path, err)
		}
		jobj = jval
	}
	if jobj == nil {
		jobj = []any{}
	}
	data, err := json.Marshal(jobj)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unexpected %s payload: %w", path, err)
	}
	return nil
}

// Entries implements goldbook.Reader.
func (c *Client) Entries(ctx context.Context, unit goldbook.Unit) ([]goldbook.Entry, error) {
	var wires []entryWire
	if err := c.list(ctx, collection(unit), &wires); err != nil {
		return nil, err
	}
	entries := make([]goldbook.Entry, 0, len(wires))
	for _, w := range wires {
		e, err := w.entry(c.loc())
		if err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", unit, w.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Capitals implements goldbook.Reader.
func (c *Client) Capitals(ctx context.Context) ([]goldbook.Capital, error) {
	var wires []capitalWire
	if err := c.list(ctx, "/capitals/", &wires); err != nil {
		return nil, err
	}
	capitals := make([]goldbook.Capital, 0, len(wires))
	for _, w := range wires {
		rec, err := w.capital(c.loc())
		if err != nil {
			return nil, fmt.Errorf("capital %d: %w", w.ID, err)
		}
		capitals = append(capitals, rec)
	}
	return capitals, nil
}

// Customers implements goldbook.Reader.
func (c *Client) Customers(ctx context.Context) ([]goldbook.Customer, error) {
	var wires []customerWire
	if err := c.list(ctx, "/customers/", &wires); err != nil {
		return nil, err
	}
	customers := make([]goldbook.Customer, 0, len(wires))
	for _, w := range wires {
		customers = append(customers, goldbook.Customer{ID: w.ID, Name: w.Name, Phone: w.Phone})
	}
	return customers, nil
}

// CreateEntry implements goldbook.Writer.
func (c *Client) CreateEntry(ctx context.Context, unit goldbook.Unit, in goldbook.EntryInput) (goldbook.Entry, error) {
	var w entryWire
	if err := c.do(ctx, http.MethodPost, collection(unit), newEntryWire(in), &w); err != nil {
		return goldbook.Entry{}, err
	}
	return w.entry(c.loc())
}

// UpdateEntry implements goldbook.Writer.
func (c *Client) UpdateEntry(ctx context.Context, unit goldbook.Unit, id int64, in goldbook.EntryInput) (goldbook.Entry, error) {
	var w entryWire
	if err := c.do(ctx, http.MethodPut, item(collection(unit), id), newEntryWire(in), &w); err != nil {
		return goldbook.Entry{}, err
	}
	return w.entry(c.loc())
}

// DeleteEntry implements goldbook.Writer.
func (c *Client) DeleteEntry(ctx context.Context, unit goldbook.Unit, id int64) error {
	return c.do(ctx, http.MethodDelete, item(collection(unit), id), nil, nil)
}

// CreateCapital implements goldbook.Writer.
func (c *Client) CreateCapital(ctx context.Context, in goldbook.CapitalInput) (goldbook.Capital, error) {
	var w capitalWire
	if err := c.do(ctx, http.MethodPost, "/capitals/", newCapitalWire(in), &w); err != nil {
		return goldbook.Capital{}, err
	}
	return w.capital(c.loc())
}

// UpdateCapital implements goldbook.Writer.
func (c *Client) UpdateCapital(ctx context.Context, id int64, in goldbook.CapitalInput) (goldbook.Capital, error) {
	var w capitalWire
	if err := c.do(ctx, http.MethodPut, item("/capitals/", id), newCapitalWire(in), &w); err != nil {
		return goldbook.Capital{}, err
	}
	return w.capital(c.loc())
}

// DeleteCapital implements goldbook.Writer.
func (c *Client) DeleteCapital(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, item("/capitals/", id), nil, nil)
}

// CreateCustomer implements goldbook.Writer.
func (c *Client) CreateCustomer(ctx context.Context, in goldbook.CustomerInput) (goldbook.Customer, error) {
	var w customerWire
	if err := c.do(ctx, http.MethodPost, "/customers/", customerWire{Name: in.Name, Phone: in.Phone}, &w); err != nil {
		return goldbook.Customer{}, err
	}
	return goldbook.Customer{ID: w.ID, Name: w.Name, Phone: w.Phone}, nil
}

func (c *Client) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

var _ goldbook.Store = (*Client)(nil)
