package enrich

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/catalog"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/metrics"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// Outcome classifies a lookup attempt. "Looked and found nothing" and
// "could not look" are distinct for observability even though the
// resolver treats both as absence.
type Outcome string

const (
	// OutcomeFound means the adapter returned usable product data.
	OutcomeFound Outcome = "found"
	// OutcomeNone means the provider was queried and had no record, or
	// the adapter is unconfigured.
	OutcomeNone Outcome = "none"
	// OutcomeFailed means the provider could not be queried.
	OutcomeFailed Outcome = "failed"
)

// LookupResult is the uniform result of one enrichment-source attempt.
// Data is non-nil only when Outcome is OutcomeFound. Err is diagnostic
// context for OutcomeFailed and never propagates past the adapter.
type LookupResult struct {
	Data    *domain.ExternalProductData
	Outcome Outcome
	Err     error
}

// Lookup is one enrichment source strategy. Implementations never return
// an error to the caller; failures are folded into the result.
type Lookup interface {
	Lookup(ctx context.Context, item domain.RawItem) LookupResult
	Name() string
}

const maxSearchTitleLen = 100

// truncateRunes bounds s to n runes. Cutting on a byte offset could split
// a multi-byte rune and hand the provider invalid UTF-8.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// IdentifierLookup queries the catalog provider by UPC or ASIN.
type IdentifierLookup struct {
	client catalog.Client
	logger *slog.Logger
}

// NewIdentifierLookup creates the identifier adapter. A nil client marks
// the provider unconfigured; every lookup then reports OutcomeNone.
func NewIdentifierLookup(client catalog.Client, logger *slog.Logger) *IdentifierLookup {
	return &IdentifierLookup{client: client, logger: logger}
}

// Name returns the adapter name.
func (*IdentifierLookup) Name() string { return "identifier" }

// Lookup fetches product data for the item's UPC/ASIN.
func (l *IdentifierLookup) Lookup(
	ctx context.Context,
	item domain.RawItem,
) LookupResult {
	id := item.Identifier()
	if l.client == nil || id == "" {
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	data, err := l.client.LookupByIdentifier(ctx, id)
	if err != nil {
		l.logger.Warn("identifier lookup failed",
			"item_number", item.ItemNumber,
			"identifier", id,
			"error", err,
		)
		return l.observe(LookupResult{Outcome: OutcomeFailed, Err: err})
	}
	if data == nil {
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	return l.observe(LookupResult{Data: data, Outcome: OutcomeFound})
}

func (l *IdentifierLookup) observe(res LookupResult) LookupResult {
	metrics.LookupOutcomesTotal.WithLabelValues(l.Name(), string(res.Outcome)).Inc()
	return res
}

// TitleSearchLookup queries the catalog provider's search endpoint with
// the item title and takes the top-ranked result.
type TitleSearchLookup struct {
	client catalog.Client
	logger *slog.Logger
}

// NewTitleSearchLookup creates the title-search adapter. A nil client
// marks the provider unconfigured.
func NewTitleSearchLookup(client catalog.Client, logger *slog.Logger) *TitleSearchLookup {
	return &TitleSearchLookup{client: client, logger: logger}
}

// Name returns the adapter name.
func (*TitleSearchLookup) Name() string { return "title_search" }

// Lookup searches the catalog by title, brand-prefixed when known.
func (l *TitleSearchLookup) Lookup(
	ctx context.Context,
	item domain.RawItem,
) LookupResult {
	if l.client == nil || item.Title == "" {
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	query := searchQuery(item.Title, item.Brand)

	data, err := l.client.SearchByTitle(ctx, query)
	if err != nil {
		l.logger.Warn("title search failed",
			"item_number", item.ItemNumber,
			"query", query,
			"error", err,
		)
		return l.observe(LookupResult{Outcome: OutcomeFailed, Err: err})
	}
	if data == nil {
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	return l.observe(LookupResult{Data: data, Outcome: OutcomeFound})
}

func (l *TitleSearchLookup) observe(res LookupResult) LookupResult {
	metrics.LookupOutcomesTotal.WithLabelValues(l.Name(), string(res.Outcome)).Inc()
	return res
}

// searchQuery bounds the title and prefixes the brand to sharpen results.
func searchQuery(title, brand string) string {
	q := truncateRunes(title, maxSearchTitleLen)
	if brand != "" {
		q = brand + " " + q
	}
	return q
}

// UPCDatabaseLookup queries the UPC database for items carrying a UPC but
// no catalog match.
type UPCDatabaseLookup struct {
	client catalog.UPCClient
	logger *slog.Logger
}

// NewUPCDatabaseLookup creates the UPC database adapter. A nil client
// marks the provider unconfigured.
func NewUPCDatabaseLookup(client catalog.UPCClient, logger *slog.Logger) *UPCDatabaseLookup {
	return &UPCDatabaseLookup{client: client, logger: logger}
}

// Name returns the adapter name.
func (*UPCDatabaseLookup) Name() string { return "upc_database" }

// Lookup fetches basic product data for the item's UPC.
func (l *UPCDatabaseLookup) Lookup(
	ctx context.Context,
	item domain.RawItem,
) LookupResult {
	if l.client == nil || item.UPC == "" {
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	data, err := l.client.LookupUPC(ctx, item.UPC)
	if err != nil {
		l.logger.Warn("UPC database lookup failed",
			"item_number", item.ItemNumber,
			"upc", item.UPC,
			"error", err,
		)
		return l.observe(LookupResult{Outcome: OutcomeFailed, Err: err})
	}
	if data == nil {
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	return l.observe(LookupResult{Data: data, Outcome: OutcomeFound})
}

func (l *UPCDatabaseLookup) observe(res LookupResult) LookupResult {
	metrics.LookupOutcomesTotal.WithLabelValues(l.Name(), string(res.Outcome)).Inc()
	return res
}
