// Package api is the client for the contracts backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// Credentials supplies the bearer token attached to authenticated requests.
type Credentials interface {
	AccessToken() string
}

// Client talks to the backend. A Client is safe for concurrent use; As returns
// a copy bound to one session's credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sends requests through a copy of hc, so later options
// never change the caller's client. A nil hc is ignored.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc == nil {
			return
		}
		cp := *hc
		c.httpClient = &cp
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		cp := *c.httpClient
		cp.Timeout = d
		c.httpClient = &cp
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// As returns a copy of the client that authenticates with creds.
func (c *Client) As(creds Credentials) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListParams are the query parameters of a list request. Page is 1-based.
type ListParams struct {
	Page  int
	Size  int
	Query string
	Sort  []SortParam
}

// SortParam orders a list by one field.
type SortParam struct {
	Field string
	Desc  bool
}

func (s SortParam) dir() string {
	if s.Desc {
		return "desc"
	}
	return "asc"
}

// Values encodes the params the way the backend expects them:
// page, size, q, one sort=field,dir per key, and sortBy/sortDir for the first key.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("size", strconv.Itoa(p.Size))
	v.Set("q", strings.TrimSpace(p.Query))
	for _, s := range p.Sort {
		v.Add("sort", s.Field+","+s.dir())
	}
	if len(p.Sort) > 0 {
		v.Set("sortBy", p.Sort[0].Field)
		v.Set("sortDir", p.Sort[0].dir())
	}
	return v
}

// List fetches one page of the collection at path and normalizes the response.
func (c *Client) List(ctx context.Context, path string, params ListParams) (RawPage, error) {
	resp, body, err := c.do(ctx, http.MethodGet, path, params.Values(), nil)
	if err != nil {
		return RawPage{}, err
	}
	page, err := DecodeList(body, resp.Header)
	if err != nil {
		return RawPage{}, fmt.Errorf("GET %s: %w", path, err)
	}
	return page, nil
}

// Create posts body to the collection at path and returns the created record.
func (c *Client) Create(ctx context.Context, path string, body any) (json.RawMessage, error) {
	_, data, err := c.do(ctx, http.MethodPost, path, nil, body)
	return data, err
}

// Update puts body to the item id under path and returns the updated record.
func (c *Client) Update(ctx context.Context, path, id string, body any) (json.RawMessage, error) {
	_, data, err := c.do(ctx, http.MethodPut, path+"/"+url.PathEscape(id), nil, body)
	return data, err
}

// do executes one request. Non-2xx responses come back as *RequestError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token := c.creds.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, data, newRequestError(method, path, resp.StatusCode, data)
	}
	return resp, data, nil
}
