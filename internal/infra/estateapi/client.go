// Package estateapi is the typed client of the estate backend REST API.
// Every method issues exactly one request: no retries and no caching.
package estateapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config defines settings for the estate API client.
type Config struct {
	BaseURL string
	// Timeout bounds each call when positive. Zero leaves calls bounded only by the caller's context.
	Timeout time.Duration
}

// Client talks to the estate backend.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient HTTPClient
	logger     *slog.Logger
}

var ErrBaseURLRequired = errors.New("estateapi: base url is required")

// New creates a client. A nil httpClient falls back to http.DefaultClient.
func New(httpClient HTTPClient, cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("estateapi: invalid base url %q: %w", base, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: base, timeout: cfg.Timeout, httpClient: httpClient, logger: logger}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// call performs the request and decodes a successful body into out. A nil out
// discards the body; an empty body is accepted only when allowEmpty is set.
func (c *Client) call(ctx context.Context, resource, method, path string, query url.Values, body any, out any, allowEmpty bool) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("estateapi: %s: encode body: %w", resource, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("estateapi: %s: build request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := &Error{Resource: resource, Kind: KindTransport, Err: err}
		c.logError("estate api request failed", apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := &Error{
			Resource:   resource,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
		c.logError("estate api returned error", apiErr)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		apiErr := &Error{Resource: resource, Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
		c.logError("estate api decode failed", apiErr)
		return apiErr
	}
	return nil
}

func getJSON[T any](ctx context.Context, c *Client, resource, path string, query url.Values) (T, error) {
	var out T
	if err := c.call(ctx, resource, http.MethodGet, path, query, nil, &out, false); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func postJSON[T any](ctx context.Context, c *Client, resource, path string, query url.Values, body any) (T, error) {
	var out T
	if err := c.call(ctx, resource, http.MethodPost, path, query, body, &out, true); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (c *Client) logError(msg string, err *Error) {
	if c.logger == nil {
		return
	}
	c.logger.Error(msg, "resource", err.Resource, "kind", err.Kind, "status", err.StatusCode, "error", err)
}
