package enrich_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/enrich"
	"github.com/CloudDevelopmentGroup/arbitrage/pkg/logger"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// recordingLookup reports a fixed outcome and remembers whether it ran.
type recordingLookup struct {
	name    string
	outcome enrich.Outcome
	source  string
	called  bool
}

func (r *recordingLookup) Name() string { return r.name }

func (r *recordingLookup) Lookup(
	_ context.Context,
	_ domain.RawItem,
) enrich.LookupResult {
	r.called = true
	if r.outcome != enrich.OutcomeFound {
		return enrich.LookupResult{Outcome: r.outcome}
	}
	return enrich.LookupResult{
		Data:    &domain.ExternalProductData{Source: r.source},
		Outcome: enrich.OutcomeFound,
	}
}

func TestEnrichOne_FirstFoundWins(t *testing.T) {
	t.Parallel()

	first := &recordingLookup{name: "identifier", outcome: enrich.OutcomeFound, source: "Catalog Lookup"}
	second := &recordingLookup{name: "title_search", outcome: enrich.OutcomeFound, source: "Catalog Search"}

	e := enrich.NewEnricher(
		[]enrich.Lookup{first, second},
		enrich.WithLogger(logger.Nop()),
	)

	got := e.EnrichOne(context.Background(), domain.RawItem{
		ItemNumber: "1", Title: "Ordinary manifest line item title",
	}, enrich.Options{})

	assert.Equal(t, "Catalog Lookup", got.EnrichmentSource)
	assert.True(t, first.called)
	assert.False(t, second.called, "chain stops at first found")
}

func TestEnrichOne_FallsThroughChain(t *testing.T) {
	t.Parallel()

	first := &recordingLookup{name: "identifier", outcome: enrich.OutcomeNone}
	second := &recordingLookup{name: "upc_database", outcome: enrich.OutcomeFailed}
	third := &recordingLookup{name: "title_search", outcome: enrich.OutcomeFound, source: "Catalog Search"}

	e := enrich.NewEnricher(
		[]enrich.Lookup{first, second, third},
		enrich.WithLogger(logger.Nop()),
	)

	got := e.EnrichOne(context.Background(), domain.RawItem{
		ItemNumber: "1", Title: "Ordinary manifest line item title",
	}, enrich.Options{})

	assert.True(t, got.Enriched)
	assert.Equal(t, "Catalog Search", got.EnrichmentSource)
	assert.True(t, second.called, "failed adapter does not stop the chain")
}

func TestEnrichOne_AIGating(t *testing.T) {
	t.Parallel()

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		ai := &recordingLookup{name: "ai_identifier", outcome: enrich.OutcomeFound, source: "AI ASIN Lookup"}
		e := enrich.NewEnricher(nil,
			enrich.WithLogger(logger.Nop()),
			enrich.WithAILookup(ai),
		)

		got := e.EnrichOne(context.Background(), domain.RawItem{
			ItemNumber: "1", Title: "Ordinary manifest line item title",
		}, enrich.Options{})

		assert.False(t, ai.called)
		assert.False(t, got.Enriched)
	})

	t.Run("enabled runs after the chain", func(t *testing.T) {
		t.Parallel()

		chained := &recordingLookup{name: "identifier", outcome: enrich.OutcomeNone}
		ai := &recordingLookup{name: "ai_identifier", outcome: enrich.OutcomeFound, source: "AI ASIN Lookup"}
		e := enrich.NewEnricher([]enrich.Lookup{chained},
			enrich.WithLogger(logger.Nop()),
			enrich.WithAILookup(ai),
		)

		got := e.EnrichOne(context.Background(), domain.RawItem{
			ItemNumber: "1", Title: "Ordinary manifest line item title",
		}, enrich.Options{EnableAILookup: true})

		assert.True(t, chained.called)
		assert.True(t, ai.called)
		assert.Equal(t, "AI ASIN Lookup", got.EnrichmentSource)
	})
}

func TestEnrichOne_NoAdaptersStillNormalizes(t *testing.T) {
	t.Parallel()

	e := enrich.NewEnricher(nil, enrich.WithLogger(logger.Nop()))

	got := e.EnrichOne(context.Background(), domain.RawItem{
		ItemNumber: "1",
		Title:      "  lenovo thinkpad T480s  ",
		Brand:      "lenovo",
		Condition:  "renewed",
	}, enrich.Options{})

	assert.Equal(t, "lenovo thinkpad T480s", got.Title)
	assert.Equal(t, "Lenovo", got.Brand)
	assert.Equal(t, domain.ConditionRefurbished, got.Condition)
	assert.Equal(t, "T480s", got.Model)
	assert.False(t, got.Enriched)
}
