package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/metrics"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

const (
	// SourceIdentifierLookup tags product data found via UPC/ASIN lookup.
	SourceIdentifierLookup = "Catalog Lookup"
	// SourceTitleSearch tags product data found via title search.
	SourceTitleSearch = "Catalog Search"

	searchResultLimit = 3
)

// ProductClient implements Client against the catalog provider's HTTP API.
type ProductClient struct {
	endpoint   string
	accessKey  string
	secretKey  string
	partnerTag string
	client     *http.Client
	limiter    *RateLimiter
}

// ProductClientOption configures the ProductClient.
type ProductClientOption func(*ProductClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ProductClientOption {
	return func(c *ProductClient) {
		c.client = hc
	}
}

// WithPartnerTag sets the partner tag sent on every request.
func WithPartnerTag(tag string) ProductClientOption {
	return func(c *ProductClient) {
		c.partnerTag = tag
	}
}

// WithRateLimiter injects a limiter applied before every provider call.
func WithRateLimiter(r *RateLimiter) ProductClientOption {
	return func(c *ProductClient) {
		c.limiter = r
	}
}

// NewProductClient creates a catalog API client.
func NewProductClient(
	endpoint, accessKey, secretKey string,
	opts ...ProductClientOption,
) *ProductClient {
	c := &ProductClient{
		endpoint:  endpoint,
		accessKey: accessKey,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupByIdentifier implements Client by fetching /items for a UPC or ASIN.
func (c *ProductClient) LookupByIdentifier(
	ctx context.Context,
	identifier string,
) (*domain.ExternalProductData, error) {
	params := url.Values{}
	params.Set("ids", identifier)

	item, err := c.fetchFirst(ctx, "/items", params)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	return toProductData(item, SourceIdentifierLookup), nil
}

// SearchByTitle implements Client by querying /search and taking the
// top-ranked result.
func (c *ProductClient) SearchByTitle(
	ctx context.Context,
	query string,
) (*domain.ExternalProductData, error) {
	params := url.Values{}
	params.Set("keywords", query)
	params.Set("limit", strconv.Itoa(searchResultLimit))

	item, err := c.fetchFirst(ctx, "/search", params)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	return toProductData(item, SourceTitleSearch), nil
}

func (c *ProductClient) fetchFirst(
	ctx context.Context,
	path string,
	params url.Values,
) (*catalogItem, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.CatalogDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.CatalogDailyUsage.Set(float64(c.limiter.DailyCount()))
	}
	metrics.CatalogAPICallsTotal.Inc()

	if c.partnerTag != "" {
		params.Set("partner_tag", c.partnerTag)
	}

	u := c.endpoint + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("X-Access-Key", c.accessKey)
	req.Header.Set("X-Secret-Key", c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing catalog request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"catalog API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp catalogAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing catalog response: %w", err)
	}

	if len(apiResp.ItemsResult.Items) == 0 {
		return nil, nil
	}

	return &apiResp.ItemsResult.Items[0], nil
}
