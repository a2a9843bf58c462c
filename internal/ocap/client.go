// Package ocap provides a minimal client for an OCAP replay server's
// operations API.
package ocap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultBaseURL is the replay server queried when none is configured.
const DefaultBaseURL = "https://ocap.red-bear.ru"

// Client is a minimal OCAP operations API client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Operation is one entry from /api/v1/operations.
type Operation struct {
	ID              int     `json:"id"`
	WorldName       string  `json:"world_name"`
	MissionName     string  `json:"mission_name"`
	MissionDuration float64 `json:"mission_duration"`
	Filename        string  `json:"filename"`
	Date            string  `json:"date"`
	Tag             string  `json:"tag"`
}

// Duration returns the mission length.
func (o *Operation) Duration() time.Duration {
	return time.Duration(o.MissionDuration * float64(time.Second))
}

// Filter narrows an operations listing. Zero fields are sent empty.
type Filter struct {
	Tag   string
	Name  string
	Newer time.Time
	Older time.Time
}

func (f Filter) query() url.Values {
	q := url.Values{}
	q.Set("tag", f.Tag)
	q.Set("name", f.Name)
	q.Set("newer", formatDay(f.Newer))
	q.Set("older", formatDay(f.Older))
	return q
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// get performs a GET request against the server and JSON-decodes the
// response body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListOperations returns operations matching f, newest first, then by filename.
func (c *Client) ListOperations(ctx context.Context, f Filter) ([]Operation, error) {
	var ops []Operation
	if err := c.get(ctx, "/api/v1/operations?"+f.query().Encode(), &ops); err != nil {
		return nil, err
	}
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Date != ops[j].Date {
			return ops[i].Date > ops[j].Date
		}
		return ops[i].Filename > ops[j].Filename
	})
	return ops, nil
}

// Download streams the raw replay file for filename into w.
func (c *Client) Download(ctx context.Context, filename string, w io.Writer) (int64, error) {
	path := "/data/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", filename, err)
	}
	return n, nil
}
