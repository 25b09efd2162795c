package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
	coingeckoID  = "neutaro"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client. An empty baseURL uses the public API.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetNTMPIPrice gets the NTMPI price in vsCurrency (e.g. "usd").
// The price is returned as the decimal text CoinGecko sent, never as a float.
func (c *CoinGeckoClient) GetNTMPIPrice(ctx context.Context, vsCurrency string) (string, error) {
	vsCurrency = strings.ToLower(vsCurrency)
	u := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", c.baseURL, coingeckoID, url.QueryEscape(vsCurrency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get rate: status %d", resp.StatusCode)
	}

	var priceResp map[string]map[string]json.Number
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&priceResp); err != nil {
		return "", fmt.Errorf("failed to decode rate: %w", err)
	}

	price, ok := priceResp[coingeckoID][vsCurrency]
	if !ok {
		return "", fmt.Errorf("no %s price for %s", vsCurrency, coingeckoID)
	}
	return price.String(), nil
}
