package analyze

import (
	"context"
	"log/slog"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// FallbackAnalyzer tries a primary analyzer and degrades to a fallback
// when the primary fails. The fallback's result carries no error, so a
// flapping AI backend never fails an item outright.
type FallbackAnalyzer struct {
	primary  Analyzer
	fallback Analyzer
	logger   *slog.Logger
}

// NewFallbackAnalyzer chains primary and fallback analyzers.
func NewFallbackAnalyzer(primary, fallback Analyzer, logger *slog.Logger) *FallbackAnalyzer {
	return &FallbackAnalyzer{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Name returns the primary analyzer's name.
func (f *FallbackAnalyzer) Name() string {
	return f.primary.Name()
}

// Analyze runs the primary analyzer, falling back on error.
func (f *FallbackAnalyzer) Analyze(
	ctx context.Context,
	in Input,
) (domain.Analysis, error) {
	analysis, err := f.primary.Analyze(ctx, in)
	if err == nil {
		return analysis, nil
	}

	f.logger.Warn("primary analyzer failed, using fallback",
		"primary", f.primary.Name(),
		"fallback", f.fallback.Name(),
		"error", err,
	)

	return f.fallback.Analyze(ctx, in)
}
