package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/metrics"
	"github.com/CloudDevelopmentGroup/arbitrage/pkg/logger"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

const (
	defaultMaxWorkers    = 10
	defaultLookupTimeout = 8 * time.Second
)

// Options gate per-call enrichment behavior.
type Options struct {
	// EnableAILookup turns on the AI identifier adapter. Off by default
	// because each call is slow and metered.
	EnableAILookup bool
}

// Enricher runs items through the adapter chain and the merge resolver.
// Adapters are tried in chain order and the first found result wins; the
// AI adapter, when enabled, is tried last.
type Enricher struct {
	chain         []Lookup
	ai            Lookup
	logger        *slog.Logger
	lookupTimeout time.Duration
	maxWorkers    int
}

// EnricherOption configures the Enricher.
type EnricherOption func(*Enricher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		e.logger = l
	}
}

// WithLookupTimeout bounds each adapter call.
func WithLookupTimeout(d time.Duration) EnricherOption {
	return func(e *Enricher) {
		e.lookupTimeout = d
	}
}

// WithMaxWorkers sets the batch worker pool size.
func WithMaxWorkers(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.maxWorkers = n
		}
	}
}

// WithAILookup installs the opt-in AI identifier adapter.
func WithAILookup(l Lookup) EnricherOption {
	return func(e *Enricher) {
		e.ai = l
	}
}

// NewEnricher creates an Enricher over the given adapter chain.
func NewEnricher(chain []Lookup, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		chain:         chain,
		logger:        logger.Nop(),
		lookupTimeout: defaultLookupTimeout,
		maxWorkers:    defaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnrichOne normalizes a raw item, runs the adapter chain, and merges
// the first found external result. Adapter failures degrade to an
// un-enriched item; EnrichOne itself never fails.
func (e *Enricher) EnrichOne(
	ctx context.Context,
	raw domain.RawItem,
	opts Options,
) domain.EnrichedItem {
	item := Normalize(raw)

	// Adapters query with the normalized title and brand.
	lookupInput := raw
	lookupInput.Title = item.Title
	lookupInput.Brand = item.Brand

	ext := e.runChain(ctx, lookupInput, opts)
	item = Resolve(item, ext)

	for _, warning := range ValidationWarnings(item) {
		e.logger.Warn("item quality issue",
			"item_number", item.ItemNumber,
			"issue", warning,
		)
	}

	source := item.EnrichmentSource
	if source == "" {
		source = "none"
	}
	metrics.EnrichmentItemsTotal.WithLabelValues(source).Inc()

	return item
}

func (e *Enricher) runChain(
	ctx context.Context,
	item domain.RawItem,
	opts Options,
) *domain.ExternalProductData {
	adapters := e.chain
	if opts.EnableAILookup && e.ai != nil {
		adapters = append(append([]Lookup{}, e.chain...), e.ai)
	}

	for _, adapter := range adapters {
		lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
		res := adapter.Lookup(lookupCtx, item)
		cancel()

		if res.Outcome == OutcomeFound {
			e.logger.Debug("adapter matched",
				"item_number", item.ItemNumber,
				"adapter", adapter.Name(),
				"source", res.Data.Source,
			)
			return res.Data
		}
	}

	return nil
}
