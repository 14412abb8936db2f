package enrich

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/metrics"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// indexedItem pairs a result with its position in the input so the
// output can be restored to input order after concurrent completion.
type indexedItem struct {
	index int
	item  domain.EnrichedItem
}

// EnrichBatch enriches items concurrently through a bounded worker pool
// and returns them in input order. The output always has the same length
// as the input: an item whose enrichment panics degrades to its
// normalized form with EnrichmentSource "Failed".
func (e *Enricher) EnrichBatch(
	ctx context.Context,
	rawItems []domain.RawItem,
	opts Options,
) []domain.EnrichedItem {
	if len(rawItems) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.EnrichmentBatchDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]indexedItem, 0, len(rawItems))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, e.maxWorkers)
	)

	for i, raw := range rawItems {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(index int, raw domain.RawItem) {
			defer wg.Done()
			defer func() { <-semaphore }()

			item := e.enrichGuarded(ctx, raw, opts)

			mu.Lock()
			results = append(results, indexedItem{index: index, item: item})
			mu.Unlock()
		}(i, raw)
	}

	wg.Wait()

	// Completion order is arbitrary. The sort by original index is the
	// ordering guarantee, not a cosmetic step.
	sort.Slice(results, func(a, b int) bool {
		return results[a].index < results[b].index
	})

	items := make([]domain.EnrichedItem, len(results))
	for i, r := range results {
		items[i] = r.item
	}

	enriched := 0
	for _, item := range items {
		if item.Enriched {
			enriched++
		}
	}
	e.logger.Info("batch enrichment complete",
		"total", len(items),
		"enriched", enriched,
		"duration", time.Since(start),
	)

	return items
}

// enrichGuarded isolates one item's enrichment. A panic degrades that
// item to its normalized, un-enriched form without affecting siblings.
func (e *Enricher) enrichGuarded(
	ctx context.Context,
	raw domain.RawItem,
	opts Options,
) (item domain.EnrichedItem) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("enrichment panicked",
				"item_number", raw.ItemNumber,
				"panic", r,
			)
			metrics.EnrichmentFailuresTotal.Inc()

			item = Normalize(raw)
			item.Enriched = false
			item.EnrichmentSource = "Failed"
		}
	}()

	return e.EnrichOne(ctx, raw, opts)
}
