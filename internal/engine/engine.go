// Package engine orchestrates upload processing: enrichment, AI analysis,
// profit estimation, and persistence.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/analyze"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/enrich"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/metrics"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/store"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

const (
	defaultItemBatchSize = 100
	defaultUploadLimit   = 10
)

// Engine drives pending uploads through enrichment and analysis.
type Engine struct {
	store    store.Store
	enricher *enrich.Enricher
	analyzer analyze.Analyzer
	log      *slog.Logger

	itemBatchSize int
	enrichOpts    enrich.Options
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	enricher *enrich.Enricher,
	analyzer analyze.Analyzer,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:         s,
		enricher:      enricher,
		analyzer:      analyzer,
		log:           slog.Default(),
		itemBatchSize: defaultItemBatchSize,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithItemBatchSize sets how many pending items are pulled per round.
func WithItemBatchSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.itemBatchSize = n
		}
	}
}

// WithEnrichOptions sets the per-item enrichment options, such as the AI
// identifier lookup gate.
func WithEnrichOptions(opts enrich.Options) EngineOption {
	return func(e *Engine) {
		e.enrichOpts = opts
	}
}

// ProcessPendingUploads drains unfinished uploads, oldest first. Uploads
// left in processing by a crash or a stall bail-out are swept too; the
// item upsert keys make re-running them safe.
func (eng *Engine) ProcessPendingUploads(ctx context.Context) error {
	uploads, err := eng.store.ListUploadsByStatus(ctx, domain.UploadPending, defaultUploadLimit)
	if err != nil {
		return fmt.Errorf("listing pending uploads: %w", err)
	}

	stuck, err := eng.store.ListUploadsByStatus(ctx, domain.UploadProcessing, defaultUploadLimit)
	if err != nil {
		return fmt.Errorf("listing in-flight uploads: %w", err)
	}
	uploads = append(uploads, stuck...)

	for i := range uploads {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := eng.ProcessUpload(ctx, &uploads[i]); err != nil {
			eng.log.Error("upload processing failed",
				"upload_id", uploads[i].ID,
				"error", err,
			)
		}
	}

	return nil
}

// ProcessUpload runs every pending item of one upload through enrichment
// and analysis. A failing item is saved with its error and does not stop
// its siblings; progress is recounted after each round.
func (eng *Engine) ProcessUpload(ctx context.Context, upload *domain.Upload) error {
	start := time.Now()
	eng.log.Info("processing upload",
		"upload_id", upload.ID,
		"manifest_id", upload.ManifestID,
		"filename", upload.Filename,
	)

	if err := eng.store.SetUploadStatus(ctx, upload.ID, domain.UploadProcessing); err != nil {
		return fmt.Errorf("marking upload processing: %w", err)
	}

	lastProcessed := -1
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		items, err := eng.store.ListItemsByStatus(
			ctx, upload.ManifestID, domain.ItemPending, eng.itemBatchSize,
		)
		if err != nil {
			return fmt.Errorf("listing pending items: %w", err)
		}
		if len(items) == 0 {
			break
		}

		eng.processRound(ctx, upload, items)

		progress, err := eng.store.UpdateUploadProgress(ctx, upload.ID)
		if err != nil {
			return fmt.Errorf("updating upload progress: %w", err)
		}

		// A round that moves nothing forward means the store is wedged;
		// bail rather than spin on the same pending rows.
		if progress.ProcessedItems == lastProcessed {
			return fmt.Errorf("upload %s stalled at %d/%d items",
				upload.ID, progress.ProcessedItems, progress.TotalItems)
		}
		lastProcessed = progress.ProcessedItems
		eng.log.Info("upload progress",
			"upload_id", upload.ID,
			"processed", progress.ProcessedItems,
			"total", progress.TotalItems,
		)

		if progress.Completed {
			break
		}
	}

	if err := eng.finishUpload(ctx, upload); err != nil {
		return err
	}

	eng.log.Info("upload complete",
		"upload_id", upload.ID,
		"duration", time.Since(start),
	)
	return nil
}

// processRound enriches one batch of pending items and analyzes each.
func (eng *Engine) processRound(
	ctx context.Context,
	upload *domain.Upload,
	items []domain.Item,
) {
	rawItems := make([]domain.RawItem, len(items))
	for i, item := range items {
		rawItems[i] = toRawItem(item)
	}

	enriched := eng.enricher.EnrichBatch(ctx, rawItems, eng.enrichOpts)

	for i, item := range items {
		en := enriched[i]

		analysis, err := eng.analyzer.Analyze(ctx, analyze.Input{
			Title:     en.Title,
			Brand:     en.Brand,
			Condition: string(en.Condition),
			MSRP:      en.MSRP,
			Quantity:  en.Quantity,
			Notes:     en.Notes,
		})
		if err != nil {
			eng.log.Error("analysis failed",
				"item_number", en.ItemNumber,
				"error", err,
			)
			eng.saveItemError(ctx, upload.ManifestID, en, err)
			continue
		}

		profit := analyze.EstimateProfit(analysis.EstimatedSalePrice, en.Quantity)

		if err := eng.store.SaveItemAnalysis(ctx, item.ID, en, analysis, profit.ProfitPerItem); err != nil {
			eng.log.Error("saving analysis failed",
				"item_number", en.ItemNumber,
				"error", err,
			)
			eng.saveItemError(ctx, upload.ManifestID, en, err)
			continue
		}

		metrics.ItemsProcessedTotal.Inc()
	}
}

// saveItemError records the failure on the item row. A failed save is
// logged and dropped; it must not stop sibling items.
func (eng *Engine) saveItemError(
	ctx context.Context,
	manifestID string,
	item domain.EnrichedItem,
	cause error,
) {
	metrics.ItemErrorsTotal.Inc()
	if err := eng.store.SaveItemError(ctx, manifestID, item, cause.Error()); err != nil {
		eng.log.Error("saving item error failed",
			"item_number", item.ItemNumber,
			"error", err,
		)
	}
}

// finishUpload recounts progress a final time and, once complete, rolls
// the manifest summary up from the item rows.
func (eng *Engine) finishUpload(ctx context.Context, upload *domain.Upload) error {
	progress, err := eng.store.UpdateUploadProgress(ctx, upload.ID)
	if err != nil {
		return fmt.Errorf("final progress update: %w", err)
	}

	if !progress.Completed {
		eng.log.Warn("upload left incomplete",
			"upload_id", upload.ID,
			"processed", progress.ProcessedItems,
			"total", progress.TotalItems,
		)
		return nil
	}

	if err := eng.store.RecomputeManifestSummary(ctx, upload.ManifestID); err != nil {
		return fmt.Errorf("recomputing manifest summary: %w", err)
	}

	metrics.UploadsProcessedTotal.Inc()
	return nil
}

func toRawItem(item domain.Item) domain.RawItem {
	return domain.RawItem{
		ItemNumber: item.ItemNumber,
		Title:      item.Title,
		Brand:      item.Brand,
		UPC:        item.UPC,
		ASIN:       item.ASIN,
		Model:      item.Model,
		Category:   item.Category,
		Condition:  string(item.Condition),
		MSRP:       item.MSRP,
		Quantity:   item.Quantity,
		Notes:      item.Notes,
	}
}
