// Package store defines the datastore abstraction for the arbitrage
// pipeline. All business logic depends on the Store interface, never on
// concrete implementations. This enables fake-based testing without a
// running database.
package store

import (
	"context"
	"errors"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Progress is the result of an upload progress recount.
type Progress struct {
	ProcessedItems int
	TotalItems     int
	Completed      bool
}

// Store defines all data access operations for the arbitrage pipeline.
type Store interface {
	// Manifests
	CreateManifest(ctx context.Context, m *domain.Manifest) error
	GetManifest(ctx context.Context, id string) (*domain.Manifest, error)
	ListManifests(ctx context.Context) ([]domain.Manifest, error)
	// RecomputeManifestSummary rolls the manifest's MSRP, projected
	// revenue, and margin up from its item rows.
	RecomputeManifestSummary(ctx context.Context, manifestID string) error

	// Uploads
	CreateUpload(ctx context.Context, u *domain.Upload) error
	GetUpload(ctx context.Context, id string) (*domain.Upload, error)
	ListUploadsByStatus(ctx context.Context, status domain.UploadStatus, limit int) ([]domain.Upload, error)
	SetUploadStatus(ctx context.Context, id string, status domain.UploadStatus) error
	// UpdateUploadProgress recounts processed items from item rows (so
	// out-of-order and duplicate processing stay consistent) and marks
	// the upload completed when every row is processed.
	UpdateUploadProgress(ctx context.Context, uploadID string) (Progress, error)

	// Items
	InsertItems(ctx context.Context, manifestID string, items []domain.RawItem) (int, error)
	ListItemsByStatus(ctx context.Context, manifestID string, status domain.ItemStatus, limit int) ([]domain.Item, error)
	ListItems(ctx context.Context, manifestID string) ([]domain.Item, error)
	SaveItemAnalysis(ctx context.Context, itemID string, item domain.EnrichedItem, analysis domain.Analysis, profit float64) error
	// SaveItemError upserts the item row with a zeroed analysis and the
	// truncated error text so a failed item is still visible downstream.
	SaveItemError(ctx context.Context, manifestID string, item domain.EnrichedItem, errMsg string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
