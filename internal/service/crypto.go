package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const cryptoServiceName = "crypto"

const defaultCryptoURL = "https://api.coingecko.com/api/v3/simple/price"

// Crypto wraps the cryptocurrency price provider.
type Crypto struct {
	client  *Client
	baseURL string
}

// NewCrypto builds the crypto price adapter.
func NewCrypto(client *Client, baseURL string) *Crypto {
	if baseURL == "" {
		baseURL = defaultCryptoURL
	}
	return &Crypto{client: client, baseURL: baseURL}
}

// Quote is one coin's spot price with daily change.
type Quote struct {
	Coin      string
	USD       float64
	Change24h float64
}

// Price fetches the USD price for a coin identifier (e.g. "bitcoin").
func (c *Crypto) Price(ctx context.Context, coin string) (Quote, error) {
	coin = strings.ToLower(strings.TrimSpace(coin))
	params := url.Values{}
	params.Set("ids", coin)
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")

	var resp map[string]struct {
		USD       float64 `json:"usd"`
		Change24h float64 `json:"usd_24h_change"`
	}
	if err := c.client.getJSON(ctx, cryptoServiceName, c.baseURL, params, &resp); err != nil {
		return Quote{}, err
	}
	entry, ok := resp[coin]
	if !ok {
		return Quote{}, Malformed(cryptoServiceName, fmt.Errorf("coin %q missing in payload", coin))
	}
	return Quote{Coin: coin, USD: entry.USD, Change24h: entry.Change24h}, nil
}
