package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/analyze"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/catalog"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/config"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/enrich"
	"github.com/CloudDevelopmentGroup/arbitrage/pkg/logger"
)

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

// buildEnricher assembles the lookup chain from whatever providers the
// config enables. Order matters: identifier lookups come before the UPC
// database, title search runs after both, and the AI lookup (when
// enabled) is attached last.
func buildEnricher(cfg *config.Config, log *slog.Logger) *enrich.Enricher {
	var chain []enrich.Lookup

	if cfg.Catalog.Configured() {
		limiter := catalog.NewRateLimiter(
			cfg.Catalog.RateLimit.PerSecond,
			cfg.Catalog.RateLimit.Burst,
			cfg.Catalog.RateLimit.DailyLimit,
		)
		pc := catalog.NewProductClient(
			cfg.Catalog.Endpoint,
			cfg.Catalog.AccessKey,
			cfg.Catalog.SecretKey,
			catalog.WithPartnerTag(cfg.Catalog.PartnerTag),
			catalog.WithRateLimiter(limiter),
			catalog.WithHTTPClient(&http.Client{Timeout: cfg.Catalog.Timeout}),
		)
		chain = append(chain, enrich.NewIdentifierLookup(pc, log))

		if cfg.UPCDB.Enabled {
			upc := catalog.NewUPCItemDBClient(
				cfg.UPCDB.Endpoint,
				catalog.WithUPCHTTPClient(&http.Client{Timeout: cfg.UPCDB.Timeout}),
			)
			chain = append(chain, enrich.NewUPCDatabaseLookup(upc, log))
		}

		chain = append(chain, enrich.NewTitleSearchLookup(pc, log))
	} else if cfg.UPCDB.Enabled {
		upc := catalog.NewUPCItemDBClient(
			cfg.UPCDB.Endpoint,
			catalog.WithUPCHTTPClient(&http.Client{Timeout: cfg.UPCDB.Timeout}),
		)
		chain = append(chain, enrich.NewUPCDatabaseLookup(upc, log))
	}

	opts := []enrich.EnricherOption{
		enrich.WithLogger(log),
		enrich.WithLookupTimeout(cfg.Enrichment.LookupTimeout),
		enrich.WithMaxWorkers(cfg.Enrichment.MaxWorkers),
	}

	if cfg.AI.Configured() {
		backend := newAIBackend(cfg)
		opts = append(opts, enrich.WithAILookup(enrich.NewAILookup(backend, log)))
	}

	return enrich.NewEnricher(chain, opts...)
}

// buildAnalyzer returns the AI analyzer with a deterministic mock
// fallback, or the mock alone when no AI provider is configured.
func buildAnalyzer(cfg *config.Config, log *slog.Logger) analyze.Analyzer {
	mock := analyze.NewMockAnalyzer()

	if !cfg.AI.Configured() {
		log.Info("no AI provider configured, using mock analyzer")
		return mock
	}

	primary := analyze.NewLLMAnalyzer(
		newAIBackend(cfg),
		analyze.WithTemperature(cfg.AI.Temperature),
		analyze.WithMaxTokens(cfg.AI.MaxCompletionTokens),
	)
	return analyze.NewFallbackAnalyzer(primary, mock, log)
}

func newAIBackend(cfg *config.Config) analyze.LLMBackend {
	return analyze.NewOpenAICompatBackend(
		cfg.AI.Endpoint,
		cfg.AI.Model,
		cfg.AI.APIKey,
		analyze.WithOpenAICompatHTTPClient(&http.Client{Timeout: cfg.AI.Timeout}),
	)
}
