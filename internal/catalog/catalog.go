// Package catalog provides clients for external product-data providers:
// the primary product catalog API (identifier lookup and title search) and
// the UPCitemdb fallback. Both are abstracted behind interfaces for
// testability; callers inject them and may inject nil when a provider is
// unconfigured.
package catalog

import (
	"context"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// Client defines the product catalog provider operations. Both calls return
// (nil, nil) when the provider has no data for the query; a non-nil error
// means the lookup itself could not be performed.
type Client interface {
	// LookupByIdentifier fetches product data for a UPC or ASIN.
	LookupByIdentifier(ctx context.Context, identifier string) (*domain.ExternalProductData, error)
	// SearchByTitle runs a keyword search and returns the top-ranked result.
	SearchByTitle(ctx context.Context, query string) (*domain.ExternalProductData, error)
}

// UPCClient defines the UPC database fallback lookup.
type UPCClient interface {
	LookupUPC(ctx context.Context, upc string) (*domain.ExternalProductData, error)
}
