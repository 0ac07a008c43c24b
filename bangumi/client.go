package bangumi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http/httpguts"
)

const (
	// Version is the library version reported in the default user agent
	Version = "0.3.0"
	// DefaultBaseURL is the public API root
	DefaultBaseURL = "https://api.bgm.tv"
	// DefaultUserAgent identifies this library to the API
	DefaultUserAgent = "s0up4200/bgmtv/" + Version + " (https://github.com/s0up4200/bgmtv)"
	// DefaultTimeout applies to the default transport
	DefaultTimeout = 30 * time.Second
)

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client represents a bangumi API client. It is immutable once created and
// safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	userAgent  string
	token      string
	httpClient Doer
	logger     zerolog.Logger
}

// NewClient creates a new bangumi client
func NewClient(opts ...Option) (*Client, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	base, err := url.Parse(strings.TrimSuffix(options.baseURL, "/"))
	if err != nil {
		return nil, newError(KindURL, "new client", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, newError(KindURL, "new client", fmt.Errorf("base URL %q must be absolute", options.baseURL))
	}

	if !httpguts.ValidHeaderFieldValue(options.userAgent) {
		return nil, newError(KindHeader, "new client", fmt.Errorf("invalid user agent %q", options.userAgent))
	}
	if options.token != "" && !httpguts.ValidHeaderFieldValue("Bearer "+options.token) {
		return nil, newError(KindHeader, "new client", errors.New("invalid access token"))
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:    base,
		userAgent:  options.userAgent,
		token:      options.token,
		httpClient: httpClient,
		logger:     options.logger,
	}, nil
}

// BaseURL returns the API root the client sends requests to
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// UserAgent returns the user agent sent with every request
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Token returns the access token, or "" when none is configured
func (c *Client) Token() string {
	return c.token
}

// HTTPClient returns the underlying transport, for calling endpoints this
// package does not cover.
func (c *Client) HTTPClient() Doer {
	return c.httpClient
}

// Do sends a rendered request and returns the raw body of a 2xx response.
func (c *Client) Do(ctx context.Context, op string, r *Request) ([]byte, error) {
	return c.do(ctx, op, r, true)
}

// doJSON sends r and decodes the response body into out
func (c *Client) doJSON(ctx context.Context, op string, r *Request, out any) error {
	body, err := c.do(ctx, op, r, true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newError(KindDecode, op, err)
	}
	return nil
}

// doBytes sends r and returns the body unparsed, for image endpoints
func (c *Client) doBytes(ctx context.Context, op string, r *Request) ([]byte, error) {
	return c.do(ctx, op, r, false)
}

func (c *Client) do(ctx context.Context, op string, r *Request, acceptJSON bool) ([]byte, error) {
	u := r.URL(c.baseURL)

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, newError(KindEncode, op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, newError(KindURL, op, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if acceptJSON {
		req.Header.Set("Accept", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("op", op).
		Str("method", r.Method).
		Str("url", u.String()).
		Msg("Making bangumi API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindTransport, op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindTransport, op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		c.logger.Warn().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("title", apiErr.Title).
			Msg("bangumi API request failed")
		return nil, newError(KindStatus, op, apiErr)
	}

	return respBody, nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	var payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Title = payload.Title
		apiErr.Description = payload.Description
	}
	return apiErr
}
