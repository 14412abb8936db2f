package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

const defaultPoolSize = 10

// maxErrorTextLen bounds the error text stored on a failed item row.
const maxErrorTextLen = 200

// PostgresStore implements Store using pgxpool (connection-pooled
// PostgreSQL). Methods require live Postgres; tested via integration
// tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateManifest inserts a manifest, assigning an ID when absent.
func (s *PostgresStore) CreateManifest(ctx context.Context, m *domain.Manifest) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	args := pgx.NamedArgs{
		"id":   m.ID,
		"name": m.Name,
	}

	if err := s.pool.QueryRow(ctx, queryInsertManifest, args).
		Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("inserting manifest: %w", err)
	}
	return nil
}

// GetManifest retrieves a manifest by ID.
func (s *PostgresStore) GetManifest(ctx context.Context, id string) (*domain.Manifest, error) {
	m := &domain.Manifest{}
	err := s.pool.QueryRow(ctx, queryGetManifest, id).Scan(
		&m.ID, &m.Name, &m.TotalMSRP, &m.ProjectedRevenue, &m.ProfitMargin,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying manifest: %w", err)
	}
	return m, nil
}

// ListManifests returns all manifests, newest first.
func (s *PostgresStore) ListManifests(ctx context.Context) ([]domain.Manifest, error) {
	rows, err := s.pool.Query(ctx, queryListManifests)
	if err != nil {
		return nil, fmt.Errorf("querying manifests: %w", err)
	}
	defer rows.Close()

	var manifests []domain.Manifest
	for rows.Next() {
		var m domain.Manifest
		if err := rows.Scan(
			&m.ID, &m.Name, &m.TotalMSRP, &m.ProjectedRevenue, &m.ProfitMargin,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning manifest: %w", err)
		}
		manifests = append(manifests, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating manifests: %w", err)
	}
	return manifests, nil
}

// RecomputeManifestSummary rolls item rows up into the manifest aggregate.
func (s *PostgresStore) RecomputeManifestSummary(ctx context.Context, manifestID string) error {
	args := pgx.NamedArgs{"manifest_id": manifestID}
	if _, err := s.pool.Exec(ctx, queryRecomputeManifestSummary, args); err != nil {
		return fmt.Errorf("recomputing manifest summary: %w", err)
	}
	return nil
}

// CreateUpload inserts an upload, assigning an ID when absent.
func (s *PostgresStore) CreateUpload(ctx context.Context, u *domain.Upload) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Status == "" {
		u.Status = domain.UploadPending
	}

	args := pgx.NamedArgs{
		"id":          u.ID,
		"manifest_id": u.ManifestID,
		"filename":    u.Filename,
		"total_items": u.TotalItems,
		"status":      string(u.Status),
	}

	if err := s.pool.QueryRow(ctx, queryInsertUpload, args).
		Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("inserting upload: %w", err)
	}
	return nil
}

// GetUpload retrieves an upload by ID.
func (s *PostgresStore) GetUpload(ctx context.Context, id string) (*domain.Upload, error) {
	u, err := scanUpload(s.pool.QueryRow(ctx, queryGetUpload, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying upload: %w", err)
	}
	return u, nil
}

// ListUploadsByStatus returns uploads in the given state, oldest first.
func (s *PostgresStore) ListUploadsByStatus(
	ctx context.Context,
	status domain.UploadStatus,
	limit int,
) ([]domain.Upload, error) {
	rows, err := s.pool.Query(ctx, queryListUploadsByStatus, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("querying uploads: %w", err)
	}
	defer rows.Close()

	var uploads []domain.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		uploads = append(uploads, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating uploads: %w", err)
	}
	return uploads, nil
}

// SetUploadStatus moves an upload to the given state.
func (s *PostgresStore) SetUploadStatus(
	ctx context.Context,
	id string,
	status domain.UploadStatus,
) error {
	if _, err := s.pool.Exec(ctx, querySetUploadStatus, id, string(status)); err != nil {
		return fmt.Errorf("updating upload status: %w", err)
	}
	return nil
}

// UpdateUploadProgress recounts processed items from the item rows and
// updates the upload, completing it when all rows are processed.
func (s *PostgresStore) UpdateUploadProgress(
	ctx context.Context,
	uploadID string,
) (Progress, error) {
	u, err := s.GetUpload(ctx, uploadID)
	if err != nil {
		return Progress{}, err
	}

	var total, processed int
	if err := s.pool.QueryRow(ctx, queryCountItemProgress, u.ManifestID).
		Scan(&total, &processed); err != nil {
		return Progress{}, fmt.Errorf("counting item progress: %w", err)
	}

	// Complete when all rows in the database are processed. Duplicate
	// item numbers collapse on insert, so the row count is authoritative,
	// not the upload's original total.
	status := domain.UploadProcessing
	if total > 0 && processed >= total {
		status = domain.UploadCompleted
	}

	args := pgx.NamedArgs{
		"id":              uploadID,
		"processed_items": processed,
		"status":          string(status),
	}
	if _, err := s.pool.Exec(ctx, queryUpdateUploadProgress, args); err != nil {
		return Progress{}, fmt.Errorf("updating upload progress: %w", err)
	}

	return Progress{
		ProcessedItems: processed,
		TotalItems:     total,
		Completed:      status == domain.UploadCompleted,
	}, nil
}

// InsertItems upserts raw manifest rows as pending items, keyed by
// (manifest_id, item_number). Returns the number of rows written.
func (s *PostgresStore) InsertItems(
	ctx context.Context,
	manifestID string,
	items []domain.RawItem,
) (int, error) {
	inserted := 0
	for _, item := range items {
		args := pgx.NamedArgs{
			"id":          uuid.New().String(),
			"manifest_id": manifestID,
			"item_number": item.ItemNumber,
			"title":       item.Title,
			"brand":       item.Brand,
			"upc":         item.UPC,
			"asin":        item.ASIN,
			"model":       item.Model,
			"category":    item.Category,
			"condition":   item.Condition,
			"quantity":    item.Quantity,
			"notes":       item.Notes,
			"msrp":        item.MSRP,
		}
		if _, err := s.pool.Exec(ctx, queryInsertItem, args); err != nil {
			return inserted, fmt.Errorf("inserting item %s: %w", item.ItemNumber, err)
		}
		inserted++
	}
	return inserted, nil
}

// ListItemsByStatus returns a manifest's items in the given state.
func (s *PostgresStore) ListItemsByStatus(
	ctx context.Context,
	manifestID string,
	status domain.ItemStatus,
	limit int,
) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, queryListItemsByStatus, manifestID, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListItems returns all of a manifest's items ordered by item number.
func (s *PostgresStore) ListItems(
	ctx context.Context,
	manifestID string,
) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, queryListItems, manifestID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// SaveItemAnalysis writes the enrichment and analysis results onto an
// existing item row and marks it processed.
func (s *PostgresStore) SaveItemAnalysis(
	ctx context.Context,
	itemID string,
	item domain.EnrichedItem,
	analysis domain.Analysis,
	profit float64,
) error {
	features, err := marshalFeatures(item.Features)
	if err != nil {
		return err
	}

	args := pgx.NamedArgs{
		"id":                   itemID,
		"estimated_sale_price": analysis.EstimatedSalePrice,
		"profit":               profit,
		"demand":               analysis.Demand,
		"sales_time":           analysis.SalesTime,
		"reasoning":            analysis.Reasoning,
		"title":                item.Title,
		"brand":                item.Brand,
		"asin":                 item.ASIN,
		"model":                item.Model,
		"enriched":             item.Enriched,
		"enrichment_source":    item.EnrichmentSource,
		"msrp":                 item.MSRP,
		"msrp_verified":        item.MSRPVerified,
		"current_market_price": item.CurrentMarketPrice,
		"condition":            string(item.Condition),
		"category":             item.Category,
		"features":             features,
		"image_url":            item.ImageURL,
	}

	tag, err := s.pool.Exec(ctx, querySaveItemAnalysis, args)
	if err != nil {
		return fmt.Errorf("saving item analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving item analysis for %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// SaveItemError upserts the item row with zeroed analysis values and the
// truncated error text, so a failed item still reaches the report.
func (s *PostgresStore) SaveItemError(
	ctx context.Context,
	manifestID string,
	item domain.EnrichedItem,
	errMsg string,
) error {
	if len(errMsg) > maxErrorTextLen {
		errMsg = errMsg[:maxErrorTextLen]
	}

	features, err := marshalFeatures(item.Features)
	if err != nil {
		return err
	}

	args := pgx.NamedArgs{
		"id":                   uuid.New().String(),
		"manifest_id":          manifestID,
		"item_number":          item.ItemNumber,
		"title":                item.Title,
		"brand":                item.Brand,
		"quantity":             item.Quantity,
		"msrp":                 item.MSRP,
		"reasoning":            "Processing error: " + errMsg,
		"asin":                 item.ASIN,
		"model":                item.Model,
		"enriched":             item.Enriched,
		"enrichment_source":    item.EnrichmentSource,
		"msrp_verified":        item.MSRPVerified,
		"current_market_price": item.CurrentMarketPrice,
		"condition":            string(item.Condition),
		"category":             item.Category,
		"features":             features,
		"image_url":            item.ImageURL,
	}

	if _, err := s.pool.Exec(ctx, querySaveItemError, args); err != nil {
		return fmt.Errorf("saving item error: %w", err)
	}
	return nil
}

func marshalFeatures(features []string) (any, error) {
	if len(features) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("marshaling features: %w", err)
	}
	return b, nil
}

func scanUpload(row pgx.Row) (*domain.Upload, error) {
	u := &domain.Upload{}
	var status string
	if err := row.Scan(
		&u.ID, &u.ManifestID, &u.Filename, &u.TotalItems, &u.ProcessedItems,
		&status, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Status = domain.UploadStatus(status)
	return u, nil
}

func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	item := &domain.Item{}
	var (
		condition string
		status    string
		features  []byte
	)

	if err := row.Scan(
		&item.ID, &item.ManifestID, &item.ItemNumber, &item.Title, &item.Brand,
		&item.UPC, &item.ASIN, &item.Model, &item.Category, &condition,
		&item.Quantity, &item.Notes,
		&item.MSRP, &item.MSRPVerified, &item.CurrentMarketPrice,
		&item.ImageURL, &features,
		&item.Enriched, &item.EnrichmentSource,
		&item.EstimatedSalePrice, &item.Profit, &item.Demand,
		&item.SalesTime, &item.Reasoning,
		&status, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	item.Condition = domain.Condition(condition)
	item.Status = domain.ItemStatus(status)

	if len(features) > 0 {
		if err := json.Unmarshal(features, &item.Features); err != nil {
			return nil, fmt.Errorf("unmarshaling features: %w", err)
		}
	}

	return item, nil
}
