// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client issues search requests to the biokg-search API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/biokg-search/pkg/types"
)

// DefaultBaseURL is the API base used when none is configured.
const DefaultBaseURL = "http://localhost:5001/api"

const searchPath = "/search"

// ErrSearchFailed is wrapped by every error Search returns. Transport
// failures, non-2xx statuses, and malformed bodies are not distinguished.
var ErrSearchFailed = errors.New("search request failed")

// Client posts queries to the search endpoint.
type Client struct {
	HTTP *http.Client
	Cfg  types.ClientConfig
}

// New returns a Client for cfg. A zero BaseURL uses DefaultBaseURL.
func New(cfg types.ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TopK <= 0 {
		cfg.TopK = types.DefaultTopK
	}
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
	}
}

// Search sends one POST request with query and topK and returns the decoded
// body. topK <= 0 uses the configured default. Search performs no retries
// and no validation of query.
func (c *Client) Search(ctx context.Context, query string, topK int) (types.SearchResponse, error) {
	if topK <= 0 {
		topK = c.Cfg.TopK
	}
	if topK <= 0 {
		topK = types.DefaultTopK
	}

	body, err := json.Marshal(types.SearchRequest{Query: query, TopK: topK})
	if err != nil {
		return types.SearchResponse{}, fmt.Errorf("%w: encoding request: %v", ErrSearchFailed, err)
	}

	url := strings.TrimRight(c.baseURL(), "/") + searchPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return types.SearchResponse{}, fmt.Errorf("%w: creating request: %v", ErrSearchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.Cfg.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return types.SearchResponse{}, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.SearchResponse{}, fmt.Errorf("%w: API returned HTTP %d", ErrSearchFailed, resp.StatusCode)
	}

	var sr types.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return types.SearchResponse{}, fmt.Errorf("%w: parsing response: %v", ErrSearchFailed, err)
	}
	return sr.Normalize(), nil
}

func (c *Client) baseURL() string {
	if c.Cfg.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.Cfg.BaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}
