package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource yields the current bearer credential, or "" when the client is
// logged out. Every request reads it fresh so a credential change mid-session
// takes effect on the next call.
type TokenSource func() string

// Client speaks the storefront backend's REST contract. It is the only place
// that knows the backend's paths, envelopes and quirks.
type Client struct {
	httpClient *http.Client
	baseURL    string
	origin     string
	token      TokenSource
}

func NewClient(baseURL string, token TokenSource) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	origin := base
	if u, err := url.Parse(base); err == nil && u.Scheme != "" && u.Host != "" {
		origin = u.Scheme + "://" + u.Host
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: base,
		origin:  origin,
		token:   token,
	}
}

// do issues one request with the bearer header attached and returns the
// response for 2xx statuses. Anything else is consumed into an *Error.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	return resp, nil
}

// doJSON issues a request and decodes the payload of the response into v
// through the envelope fallbacks. v may be nil when the response is opaque.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, v interface{}) error {
	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	return decodeData(raw, v)
}
