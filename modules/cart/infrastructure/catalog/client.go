// Package catalog implements the cart's synchronous product lookup over
// HTTP against the product collaborator.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rai/commerce-saga-go/modules/cart/application"
)

// lookupTimeout bounds the lookup so a slow product service never blocks a
// cart mutation; callers fall back to request hints on error.
const lookupTimeout = 3 * time.Second

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: lookupTimeout},
	}
}

func (c *Client) GetProduct(ctx context.Context, productID string) (application.ProductInfo, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return application.ProductInfo{}, fmt.Errorf("building product request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return application.ProductInfo{}, fmt.Errorf("fetching product %s: %w", productID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return application.ProductInfo{}, fmt.Errorf("product service returned %d for %s", resp.StatusCode, productID)
	}

	var body struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return application.ProductInfo{}, fmt.Errorf("decoding product %s: %w", productID, err)
	}
	return application.ProductInfo{Name: body.Name, Price: body.Price}, nil
}

var _ application.ProductCatalog = (*Client)(nil)
