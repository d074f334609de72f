package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const currencyServiceName = "currency"

const defaultCurrencyURL = "https://cbu.uz/uz/arkhiv-kursov-valyut/json/"

// Currency wraps the central-bank exchange-rate provider.
type Currency struct {
	client  *Client
	baseURL string
}

// NewCurrency builds the currency rate adapter.
func NewCurrency(client *Client, baseURL string) *Currency {
	if baseURL == "" {
		baseURL = defaultCurrencyURL
	}
	return &Currency{client: client, baseURL: baseURL}
}

// Rate is one currency's official rate against UZS.
type Rate struct {
	Code string
	Name string
	UZS  float64
	Date string
}

type currencyEntry struct {
	Ccy     string `json:"Ccy"`
	CcyNmUZ string `json:"CcyNm_UZ"`
	Rate    string `json:"Rate"`
	Date    string `json:"Date"`
}

// Rate fetches the official rate for a currency code (e.g. "USD").
func (c *Currency) Rate(ctx context.Context, code string) (Rate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var entries []currencyEntry
	if err := c.client.getJSON(ctx, currencyServiceName, c.baseURL, url.Values{}, &entries); err != nil {
		return Rate{}, err
	}
	for _, e := range entries {
		if e.Ccy != code {
			continue
		}
		value, err := strconv.ParseFloat(e.Rate, 64)
		if err != nil {
			return Rate{}, Malformed(currencyServiceName, fmt.Errorf("rate %q: %w", e.Rate, err))
		}
		return Rate{Code: e.Ccy, Name: e.CcyNmUZ, UZS: value, Date: e.Date}, nil
	}
	return Rate{}, Malformed(currencyServiceName, fmt.Errorf("currency %q missing in payload", code))
}
