// Package rates fetches the day's GEL exchange rates for the currencies
// that appear in listing prices.
package rates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RateSet maps a currency code to its rate against GEL, expressed as
// units of that currency per 1 GEL. Normalizing a foreign price means
// dividing it by the rate. Valid for the lifetime of one run.
type RateSet map[string]float64

// Required lists the currency codes price normalization depends on.
var Required = []string{"USD", "EUR", "GBP"}

// FetchError reports a failed rates request. It is fatal: without
// fresh rates no price can be normalized, so the run must not proceed.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rates fetch: %v", e.Err)
	}
	return fmt.Sprintf("rates fetch: endpoint returned status %d", e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches rates from a JSON endpoint of the exchangerate.host
// shape: {"base":"GEL","rates":{"USD":0.36,...}}.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch performs one GET and returns the rates for the required
// currencies. There is no retry and no stale-rate fallback.
func (c *Client) Fetch() (RateSet, error) {
	resp, err := c.httpClient.Get(c.url)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var data struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode: %w", err)}
	}

	set := make(RateSet, len(Required))
	for _, code := range Required {
		rate, ok := data.Rates[code]
		if !ok || rate <= 0 {
			return nil, &FetchError{Err: fmt.Errorf("missing or invalid rate for %s", code)}
		}
		set[code] = rate
	}

	return set, nil
}
