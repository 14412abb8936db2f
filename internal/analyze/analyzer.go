package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/metrics"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// Analyzer estimates resale economics for a single item.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (domain.Analysis, error)
	Name() string
}

// LLMAnalyzer implements Analyzer using an LLM backend.
type LLMAnalyzer struct {
	backend     LLMBackend
	temperature float64
	maxTokens   int
}

// LLMAnalyzerOption configures the LLMAnalyzer.
type LLMAnalyzerOption func(*LLMAnalyzer)

// WithTemperature sets the LLM temperature for analysis.
func WithTemperature(t float64) LLMAnalyzerOption {
	return func(a *LLMAnalyzer) {
		a.temperature = t
	}
}

// WithMaxTokens sets the max tokens for LLM responses.
func WithMaxTokens(n int) LLMAnalyzerOption {
	return func(a *LLMAnalyzer) {
		a.maxTokens = n
	}
}

// NewLLMAnalyzer creates a new LLMAnalyzer.
func NewLLMAnalyzer(backend LLMBackend, opts ...LLMAnalyzerOption) *LLMAnalyzer {
	a := &LLMAnalyzer{
		backend:     backend,
		temperature: 0.3,
		maxTokens:   512,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the underlying backend name.
func (a *LLMAnalyzer) Name() string {
	return a.backend.Name()
}

// Analyze estimates the item's resale value via the LLM.
func (a *LLMAnalyzer) Analyze(
	ctx context.Context,
	in Input,
) (domain.Analysis, error) {
	prompt, err := RenderResalePrompt(in)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("rendering resale prompt: %w", err)
	}

	start := time.Now()
	metrics.AnalysisRequestsTotal.WithLabelValues(a.backend.Name()).Inc()

	resp, err := a.backend.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		SystemMsg:   "You are an expert at pricing liquidation and wholesale merchandise for resale.",
		Format:      FormatJSON,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("calling LLM for analysis: %w", err)
	}

	var analysis domain.Analysis
	content := StripCodeFences(resp.Content)
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return domain.Analysis{}, fmt.Errorf("parsing LLM JSON response: %w", err)
	}

	if analysis.EstimatedSalePrice < 0 {
		return domain.Analysis{}, fmt.Errorf(
			"invalid estimated sale price %.2f from LLM",
			analysis.EstimatedSalePrice,
		)
	}

	if analysis.Demand == "" {
		analysis.Demand = "Unknown"
	}
	if analysis.SalesTime == "" {
		analysis.SalesTime = "Unknown"
	}

	return analysis, nil
}

// StripCodeFences removes markdown code fences some models wrap JSON
// responses in.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
