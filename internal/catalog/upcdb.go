package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// SourceUPCDatabase tags product data found via the UPC database.
const SourceUPCDatabase = "UPC Database"

// UPCItemDBClient implements UPCClient against the UPCitemdb trial API.
type UPCItemDBClient struct {
	endpoint string
	client   *http.Client
}

// UPCItemDBOption configures the UPCItemDBClient.
type UPCItemDBOption func(*UPCItemDBClient)

// WithUPCHTTPClient overrides the default HTTP client.
func WithUPCHTTPClient(hc *http.Client) UPCItemDBOption {
	return func(c *UPCItemDBClient) {
		c.client = hc
	}
}

// NewUPCItemDBClient creates a UPC database client.
func NewUPCItemDBClient(endpoint string, opts ...UPCItemDBOption) *UPCItemDBClient {
	c := &UPCItemDBClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type upcDBResponse struct {
	Code  string      `json:"code"`
	Items []upcDBItem `json:"items"`
}

type upcDBItem struct {
	Title    string   `json:"title"`
	Brand    string   `json:"brand"`
	Category string   `json:"category"`
	Images   []string `json:"images"`
}

// LookupUPC implements UPCClient. Returns (nil, nil) when the database has
// no record for the code.
func (c *UPCItemDBClient) LookupUPC(
	ctx context.Context,
	upc string,
) (*domain.ExternalProductData, error) {
	u := c.endpoint + "/lookup?upc=" + url.QueryEscape(upc)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing UPC lookup: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("UPC database error (status %d)", resp.StatusCode)
	}

	var dbResp upcDBResponse
	if err := json.Unmarshal(body, &dbResp); err != nil {
		return nil, fmt.Errorf("parsing UPC response: %w", err)
	}

	if dbResp.Code != "OK" || len(dbResp.Items) == 0 {
		return nil, nil
	}

	item := dbResp.Items[0]
	data := &domain.ExternalProductData{
		Title:    item.Title,
		Brand:    item.Brand,
		Category: item.Category,
		Source:   SourceUPCDatabase,
	}
	if len(item.Images) > 0 {
		data.ImageURL = item.Images[0]
	}

	return data, nil
}
