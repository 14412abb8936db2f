package enrich

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/analyze"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/metrics"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// SourceAILookup tags product data guessed by the AI identifier adapter.
const SourceAILookup = "AI ASIN Lookup"

const maxAIQueryLen = 150

// AILookup asks a language model to guess the most likely catalog ASIN
// and current price for an item. Results are accepted only at high or
// medium confidence. Slow and metered; callers gate it behind an
// explicit flag.
type AILookup struct {
	backend analyze.LLMBackend
	logger  *slog.Logger
}

// NewAILookup creates the AI identifier adapter. A nil backend marks the
// provider unconfigured.
func NewAILookup(backend analyze.LLMBackend, logger *slog.Logger) *AILookup {
	return &AILookup{backend: backend, logger: logger}
}

// Name returns the adapter name.
func (*AILookup) Name() string { return "ai_identifier" }

type aiLookupResponse struct {
	ASIN         string   `json:"asin"`
	CurrentPrice *float64 `json:"current_price"`
	Confidence   string   `json:"confidence"`
}

// Lookup asks the model for an ASIN guess. Low, none, or malformed
// confidence outcomes are absence, not failure.
func (l *AILookup) Lookup(
	ctx context.Context,
	item domain.RawItem,
) LookupResult {
	if l.backend == nil || item.Title == "" || item.Identifier() != "" {
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	query := item.Title
	if item.Brand != "" {
		query = item.Brand + " " + query
	}
	query = truncateRunes(query, maxAIQueryLen)

	prompt, err := analyze.RenderASINLookupPrompt(query)
	if err != nil {
		return l.observe(LookupResult{Outcome: OutcomeFailed, Err: err})
	}

	resp, err := l.backend.Generate(ctx, analyze.GenerateRequest{
		Prompt:      prompt,
		SystemMsg:   "You are an expert at identifying Amazon products and their ASINs.",
		Temperature: 0.1,
		MaxTokens:   150,
	})
	if err != nil {
		l.logger.Warn("AI identifier lookup failed",
			"item_number", item.ItemNumber,
			"error", err,
		)
		return l.observe(LookupResult{Outcome: OutcomeFailed, Err: err})
	}

	var aiResp aiLookupResponse
	content := analyze.StripCodeFences(resp.Content)
	if err := json.Unmarshal([]byte(content), &aiResp); err != nil {
		l.logger.Warn("AI identifier lookup returned malformed JSON",
			"item_number", item.ItemNumber,
			"error", err,
		)
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	if aiResp.ASIN == "" ||
		(aiResp.Confidence != "high" && aiResp.Confidence != "medium") {
		return l.observe(LookupResult{Outcome: OutcomeNone})
	}

	l.logger.Info("AI identified ASIN",
		"item_number", item.ItemNumber,
		"asin", aiResp.ASIN,
		"confidence", aiResp.Confidence,
	)

	return l.observe(LookupResult{
		Data: &domain.ExternalProductData{
			ASIN:         aiResp.ASIN,
			CurrentPrice: aiResp.CurrentPrice,
			Source:       SourceAILookup,
		},
		Outcome: OutcomeFound,
	})
}

func (l *AILookup) observe(res LookupResult) LookupResult {
	metrics.LookupOutcomesTotal.WithLabelValues(l.Name(), string(res.Outcome)).Inc()
	return res
}
