// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package webclient issues the JSON requests the resolvers need against
// public lookup sites.
package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:102.0) Gecko/20100101 Firefox/102.0"
	DefaultTimeout   = 30 * time.Second
	MaxResponseSize  = 8 * 1024 * 1024 // 8 MB
)

// Config holds HTTP settings shared by all resolvers.
type Config struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// Client fetches and decodes JSON documents.
type Client struct {
	client    *http.Client
	userAgent string
}

func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Client{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: cfg.UserAgent,
	}
}

// GetJSON sends a GET to endpoint with params as the query string and
// decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, referrer string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, params, referrer, out)
}

// PostJSON is GetJSON with the POST method. The parameters still travel in
// the query string and the request body is empty.
func (c *Client) PostJSON(ctx context.Context, endpoint string, params url.Values, referrer string, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, params, referrer, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, referrer string, out any) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if referrer != "" {
		req.Header.Set("Referer", referrer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		recordRequestError(u.Host, "http_error")
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		recordRequestError(u.Host, "http_status")
		return fmt.Errorf("request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		recordRequestError(u.Host, "read_error")
		return fmt.Errorf("read response body: %w", err)
	}
	if int64(len(data)) > MaxResponseSize {
		recordRequestError(u.Host, "size_exceeded")
		return fmt.Errorf("response exceeds max size (%d bytes)", MaxResponseSize)
	}

	if err := json.Unmarshal(data, out); err != nil {
		recordRequestError(u.Host, "decode_error")
		return fmt.Errorf("unexpected response: %w", err)
	}
	return nil
}
