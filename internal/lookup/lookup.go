// Package lookup fetches advisory product metadata for a barcode from an
// external catalog service. Results pre-fill the creation form and nothing
// else; every failure here is swallowed by callers.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProductInfo is the optional descriptive metadata a lookup can return.
type ProductInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Client queries a product-information HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a lookup client for the API rooted at baseURL. The
// timeout bounds each lookup end to end.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup returns at most one metadata candidate for the barcode, or
// (nil, nil) when the service knows nothing about it. The result is purely
// advisory; freshness and correctness are not guaranteed.
func (c *Client) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var info ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	return &info, nil
}
