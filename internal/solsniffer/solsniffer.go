// Package solsniffer is a client for the SolSniffer token security API.
//
// SolSniffer response shapes vary by endpoint version and token age, so
// fields are extracted with gjson fallback chains rather than a rigid
// struct. Monetary fields are decimals to avoid float drift in the
// long tail of micro-priced tokens.
package solsniffer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public SolSniffer endpoint.
const DefaultBaseURL = "https://solsniffer.com"

// DefaultTimeout bounds a single token lookup.
const DefaultTimeout = 30 * time.Second

const apiPath = "/api/v2/token"

var (
	// ErrTokenNotFound is returned when SolSniffer does not know the
	// address.
	ErrTokenNotFound = errors.New("token not found")
	// ErrRateLimited is returned when SolSniffer rejects the request
	// with 429.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Report is the extracted view of a SolSniffer token response. Raw
// carries the full upstream JSON for prompts and caching.
type Report struct {
	Address        string          `json:"address"`
	Name           string          `json:"name"`
	Symbol         string          `json:"symbol"`
	Price          decimal.Decimal `json:"price"`
	MarketCap      decimal.Decimal `json:"market_cap"`
	Supply         decimal.Decimal `json:"supply"`
	MintDisabled   bool            `json:"mint_disabled"`
	FreezeDisabled bool            `json:"freeze_disabled"`
	LPBurned       bool            `json:"lp_burned"`
	Top10Holders   bool            `json:"top10_holders"`
	Raw            json.RawMessage `json:"raw,omitempty"`
}

// Risk levels derived from a report's score.
const (
	RiskHigh     = "HIGH RISK"
	RiskModerate = "MODERATE RISK"
	RiskLow      = "LOW RISK"
)

// RiskScore computes the 0-100 rug risk score and the factors behind
// it. Weights: active mint authority 20, active freeze authority 20,
// unburned LP 30, top-10 holder concentration 15.
func (r *Report) RiskScore() (int, []string) {
	score := 0
	var factors []string
	if !r.MintDisabled {
		score += 20
		factors = append(factors, "Mint authority not disabled")
	}
	if !r.FreezeDisabled {
		score += 20
		factors = append(factors, "Freeze authority not disabled")
	}
	if !r.LPBurned {
		score += 30
		factors = append(factors, "Liquidity pool not burned")
	}
	if r.Top10Holders {
		score += 15
		factors = append(factors, "High concentration in top 10 holders")
	}
	return score, factors
}

// RiskLevel classifies the report's score.
func (r *Report) RiskLevel() string {
	score, _ := r.RiskScore()
	return RiskLevelFor(score)
}

// RiskLevelFor classifies a risk score: HIGH at 60+, MODERATE at 30+,
// LOW below.
func RiskLevelFor(score int) string {
	switch {
	case score >= 60:
		return RiskHigh
	case score >= 30:
		return RiskModerate
	default:
		return RiskLow
	}
}

// Client fetches token reports from SolSniffer.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client. An empty baseURL selects the public endpoint; a
// non-positive timeout selects DefaultTimeout.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TokenReport fetches and parses the SolSniffer report for a token
// address.
func (c *Client) TokenReport(ctx context.Context, address string) (*Report, error) {
	url := c.baseURL + apiPath + "/" + address

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-API-KEY", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch httpResp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", address, ErrTokenNotFound)
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("solsniffer API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("invalid JSON response for %s", address)
	}
	return parseReport(address, respBody), nil
}

// parseReport extracts the report fields, handling both the nested
// ("data.tokenMetadata...") and flat response shapes.
func parseReport(address string, raw []byte) *Report {
	root := gjson.ParseBytes(raw)
	data := root.Get("data")
	if !data.Exists() {
		data = root
	}

	audit := data.Get("securityInfo.auditRisk")
	r := &Report{
		Address:        pick(data, "tokenMetadata.address", "address").String(),
		Name:           pick(data, "tokenMetadata.name", "name").String(),
		Symbol:         pick(data, "tokenMetadata.symbol", "symbol").String(),
		Price:          toDecimal(data.Get("tokenInfo.price")),
		MarketCap:      toDecimal(data.Get("tokenInfo.mktCap")),
		Supply:         toDecimal(data.Get("tokenInfo.supplyAmount")),
		MintDisabled:   audit.Get("mintDisabled").Bool(),
		FreezeDisabled: audit.Get("freezeDisabled").Bool(),
		LPBurned:       audit.Get("lpBurned").Bool(),
		Top10Holders:   audit.Get("top10Holders").Bool(),
		Raw:            json.RawMessage(raw),
	}
	if r.Address == "" {
		r.Address = address
	}
	if r.Name == "" {
		r.Name = "Unknown Token"
	}
	if r.Symbol == "" {
		r.Symbol = "???"
	}
	return r
}

func pick(root gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := root.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func toDecimal(v gjson.Result) decimal.Decimal {
	if !v.Exists() {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
