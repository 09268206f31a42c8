// Package upstream is the REST client for the central inventory platform.
// It is a thin wrapper: one function per endpoint, no retries, no caching.
// Response-shape and error-body normalization happen here, once, so the
// rest of the gateway never branches on wire shapes.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ams-gateway/internal/config"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// do issues one request and decodes the response into out (when non-nil).
// auth is the caller's bearer token, forwarded as-is; the gateway holds no
// credentials of its own. A 4xx/5xx response becomes an *APIError carrying
// a normalized human-readable message.
func (c *Client) do(ctx context.Context, auth, method, path string, query url.Values, body, out interface{}) error {
	data, err := c.doRaw(ctx, auth, method, path, query, body)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("upstream decode %s %s: %w", method, path, err)
	}
	return nil
}

// doRaw issues one request and returns the raw response body. List
// endpoints use this so envelope normalization can inspect the bytes.
func (c *Client) doRaw(ctx context.Context, auth, method, path string, query url.Values, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("upstream encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("upstream request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream read %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    NormalizeMessage(data),
			Body:       json.RawMessage(data),
		}
	}

	return data, nil
}

func (c *Client) get(ctx context.Context, auth, path string, query url.Values, out interface{}) error {
	return c.do(ctx, auth, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, auth, path string, body, out interface{}) error {
	return c.do(ctx, auth, http.MethodPost, path, nil, body, out)
}

// getList fetches a listing endpoint, tolerating both a bare JSON array
// and the paginated {results, next, count} envelope.
func getList[T any](ctx context.Context, c *Client, auth, path string, query url.Values) (List[T], error) {
	data, err := c.doRaw(ctx, auth, http.MethodGet, path, query, nil)
	if err != nil {
		return List[T]{}, err
	}
	return decodeList[T](data)
}

// Ping checks upstream reachability for the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "", "/health/", nil, nil)
}
