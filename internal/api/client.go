// Package api reads collection definitions from a running PocketBase server
// through its admin HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pbextract/internal/logger"
	"pbextract/internal/schema"
)

const (
	authPath        = "/api/admins/auth-with-password"
	collectionsPath = "/api/collections"

	// DefaultPerPage is the page size used when listing collections.
	DefaultPerPage = 200

	maxErrorBody = 64 << 10
)

// Client talks to one PocketBase server. It holds the admin token after
// AuthWithPassword succeeds.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	perPage    int
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 30s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageSize sets how many collections are requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		perPage:    DefaultPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token is the admin token, empty before authentication.
func (c *Client) Token() string {
	return c.token
}

// AuthWithPassword exchanges admin credentials for a token. A 401 response
// fails with ErrAuthenticationFailed; any other failure is a *ServerError.
func (c *Client) AuthWithPassword(ctx context.Context, identity, password string) error {
	body, err := json.Marshal(map[string]string{"identity": identity, "password": password})
	if err != nil {
		return err
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, authPath, nil, body, &resp); err != nil {
		var se *ServerError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			return ErrAuthenticationFailed
		}
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("auth response carries no token")
	}
	c.token = resp.Token
	logger.Debug("authenticated as %s", identity)
	return nil
}

type listPage struct {
	Page       int                    `json:"page"`
	PerPage    int                    `json:"perPage"`
	TotalPages int                    `json:"totalPages"`
	Items      []schema.RawCollection `json:"items"`
}

// Collections returns every collection on the server, fetching pages until
// the list is exhausted. A server answering with a bare JSON array is taken
// as the complete list.
func (c *Client) Collections(ctx context.Context) ([]schema.RawCollection, error) {
	var all []schema.RawCollection
	for page := 1; ; page++ {
		q := url.Values{
			"page":      {strconv.Itoa(page)},
			"perPage":   {strconv.Itoa(c.perPage)},
			"skipTotal": {"1"},
		}
		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, collectionsPath, q, nil, &raw); err != nil {
			return nil, err
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '[' {
			var items []schema.RawCollection
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("decode collections: %w", err)
			}
			return append(all, items...), nil
		}

		var p listPage
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode collections page %d: %w", page, err)
		}
		all = append(all, p.Items...)
		logger.Debug("collections page %d: %d items", page, len(p.Items))

		perPage := p.PerPage
		if perPage <= 0 {
			perPage = c.perPage
		}
		if len(p.Items) < perPage || (p.TotalPages > 0 && page >= p.TotalPages) {
			return all, nil
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return parseError(resp.StatusCode, data)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
