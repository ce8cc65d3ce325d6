// Package bibleapi is a client for the bible-api.com verse lookup service.
package bibleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public bible-api.com endpoint.
const DefaultBaseURL = "https://bible-api.com"

// DefaultTimeout bounds a single verse lookup.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the service does not know the requested
// reference.
var ErrNotFound = errors.New("verse not found")

// Verse is a single verse within a lookup result. A range request
// ("John 3:16-17") returns one Verse per verse.
type Verse struct {
	BookID   string `json:"book_id"`
	BookName string `json:"book_name"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Text     string `json:"text"`
}

// Response is a verse lookup result.
type Response struct {
	Reference       string  `json:"reference"`
	Verses          []Verse `json:"verses"`
	Text            string  `json:"text"`
	TranslationID   string  `json:"translation_id"`
	TranslationName string  `json:"translation_name"`
	TranslationNote string  `json:"translation_note"`
}

// Client fetches verses from a bible-api.com compatible service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. An empty baseURL selects the public service; a
// non-positive timeout selects DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup fetches a verse reference such as "John 3:16" or "John 3:16-17"
// in the given translation. An empty translation leaves the choice to
// the service.
func (c *Client) Lookup(ctx context.Context, reference, translation string) (*Response, error) {
	// The service takes the reference in the path with spaces as "+",
	// e.g. GET /John+3:16?translation=kjv.
	url := c.baseURL + "/" + strings.ReplaceAll(strings.TrimSpace(reference), " ", "+")
	if translation != "" {
		url += "?translation=" + strings.ToLower(translation)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%q: %w", reference, ErrNotFound)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bible API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &resp, nil
}
