// Package gateway fetches token snapshots from the launcher token API, the
// indexer that aggregates on-ledger metadata and bonding-curve market state.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dexteronradix/stonks/pkg/app/core"
)

// Client is an HTTP client for the token API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, &core.ConfigError{Field: "token API URL"}
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// tokenPayload is the wire shape of GET /v1/tokens/{address}. Numeric
// fields travel as decimal strings end-to-end.
type tokenPayload struct {
	Address          string `json:"address"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	Description      string `json:"description"`
	IconURL          string `json:"iconUrl"`
	ComponentAddress string `json:"componentAddress"`
	LastPrice        string `json:"lastPrice"`
	Supply           string `json:"supply"`
	Available        string `json:"available"`
	ReadyToDexter    string `json:"readyToDexter"`
}

// FetchToken fetches a full token snapshot. A failed or malformed response
// yields an error and no token, never a partial one.
func (c *Client) FetchToken(ctx context.Context, address string) (*core.Token, error) {
	endpoint := fmt.Sprintf("%s/v1/tokens/%s", c.baseURL, url.PathEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch token %s: %w", core.ShortenAddress(address), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("token %s not found", core.ShortenAddress(address))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token API returned status %d", resp.StatusCode)
	}

	var payload tokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode token payload: %w", err)
	}

	return payload.toToken(time.Now().UnixMilli())
}

// FetchTokens lists all launched tokens (gallery data).
func (c *Client) FetchTokens(ctx context.Context) ([]*core.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/tokens", nil)
	if err != nil {
		return nil, fmt.Errorf("build token list request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch token list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token API returned status %d", resp.StatusCode)
	}

	var payloads []tokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("decode token list: %w", err)
	}

	now := time.Now().UnixMilli()
	tokens := make([]*core.Token, 0, len(payloads))
	for i := range payloads {
		tok, err := payloads[i].toToken(now)
		if err != nil {
			// One bad entry must not hide the rest of the gallery.
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func (p *tokenPayload) toToken(fetchedAt int64) (*core.Token, error) {
	lastPrice, err := parseMetric("lastPrice", p.LastPrice)
	if err != nil {
		return nil, err
	}
	supply, err := parseMetric("supply", p.Supply)
	if err != nil {
		return nil, err
	}
	available, err := parseMetric("available", p.Available)
	if err != nil {
		return nil, err
	}
	readyToDexter, err := parseMetric("readyToDexter", p.ReadyToDexter)
	if err != nil {
		return nil, err
	}

	tok := &core.Token{
		Address:          p.Address,
		Name:             p.Name,
		Symbol:           p.Symbol,
		Description:      p.Description,
		IconURL:          p.IconURL,
		ComponentAddress: p.ComponentAddress,
		LastPrice:        lastPrice,
		Supply:           supply,
		Available:        available,
		ReadyToDexter:    readyToDexter,
		FetchedAt:        fetchedAt,
	}
	if err := tok.Validate(); err != nil {
		return nil, fmt.Errorf("token API payload invalid: %w", err)
	}
	return tok, nil
}

func parseMetric(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("metric %s %q is not a decimal: %w", name, value, err)
	}
	return d, nil
}
