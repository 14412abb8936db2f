// Package domain defines the core business types for the arbitrage
// manifest-enrichment pipeline.
package domain

import "time"

// Condition is the closed vocabulary for item condition.
type Condition string

// Condition constants.
const (
	ConditionNew         Condition = "New"
	ConditionLikeNew     Condition = "Like New"
	ConditionRefurbished Condition = "Refurbished"
	ConditionUsed        Condition = "Used"
	ConditionOpenBox     Condition = "Open Box"
	ConditionDamaged     Condition = "Damaged"
	ConditionUnknown     Condition = "Unknown"
)

// ItemStatus tracks per-item processing state.
type ItemStatus string

// Item status constants.
const (
	ItemPending    ItemStatus = "pending"
	ItemProcessing ItemStatus = "processing"
	ItemProcessed  ItemStatus = "processed"
)

// UploadStatus tracks ingestion-run state.
type UploadStatus string

// Upload status constants.
const (
	UploadPending    UploadStatus = "pending"
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
)

// RawItem is one line of a vendor liquidation manifest as parsed upstream.
// It is immutable once handed to the enrichment core.
type RawItem struct {
	ItemNumber string  `json:"item_number"`
	Title      string  `json:"title"`
	Brand      string  `json:"brand,omitempty"`
	UPC        string  `json:"upc,omitempty"`
	ASIN       string  `json:"asin,omitempty"`
	Model      string  `json:"model,omitempty"`
	Category   string  `json:"category,omitempty"`
	Condition  string  `json:"condition,omitempty"`
	MSRP       float64 `json:"msrp"`
	Quantity   int     `json:"quantity"`
	Notes      string  `json:"notes,omitempty"`
}

// Identifier returns the item's catalog identifier, preferring ASIN over UPC.
// Empty when the item carries neither.
func (r *RawItem) Identifier() string {
	if r.ASIN != "" {
		return r.ASIN
	}
	return r.UPC
}

// ExternalProductData is the result of one enrichment-source attempt.
// The zero value of a field means "unknown"; pointer fields distinguish
// an absent price from a zero price.
type ExternalProductData struct {
	Title        string   `json:"title,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	ASIN         string   `json:"asin,omitempty"`
	ListPrice    *float64 `json:"list_price,omitempty"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Category     string   `json:"category,omitempty"`
	Features     []string `json:"features,omitempty"`
	Source       string   `json:"source,omitempty"`
}

// EnrichedItem is a RawItem after normalization and external enrichment.
// Invariant: Enriched is true iff EnrichmentSource is non-empty.
type EnrichedItem struct {
	ItemNumber string    `json:"item_number"        db:"item_number"`
	Title      string    `json:"title"              db:"title"`
	Brand      string    `json:"brand,omitempty"    db:"brand"`
	UPC        string    `json:"upc,omitempty"      db:"upc"`
	ASIN       string    `json:"asin,omitempty"     db:"asin"`
	Model      string    `json:"model,omitempty"    db:"model"`
	Category   string    `json:"category,omitempty" db:"category"`
	Condition  Condition `json:"condition"          db:"condition"`
	Quantity   int       `json:"quantity"           db:"quantity"`
	Notes      string    `json:"notes,omitempty"    db:"notes"`

	MSRP               float64  `json:"msrp"                           db:"msrp"`
	MSRPVerified       bool     `json:"msrp_verified"                  db:"msrp_verified"`
	CurrentMarketPrice *float64 `json:"current_market_price,omitempty" db:"current_market_price"`

	ImageURL string   `json:"image_url,omitempty" db:"image_url"`
	Features []string `json:"features,omitempty"  db:"features"`

	Enriched         bool   `json:"enriched"                    db:"enriched"`
	EnrichmentSource string `json:"enrichment_source,omitempty" db:"enrichment_source"`
}

// Analysis is the AI resale estimate for one item.
type Analysis struct {
	EstimatedSalePrice float64 `json:"estimatedSalePrice"`
	Demand             string  `json:"demand"`
	SalesTime          string  `json:"salesTime"`
	Reasoning          string  `json:"reasoning"`
	ProfitMargin       float64 `json:"profitMargin"`
}

// ProfitSummary is the derived economics of buying and reselling an item
// under the fixed 30% acquisition-cost model. Values carry full precision;
// rounding happens at the presentation boundary only.
type ProfitSummary struct {
	PurchasePrice   float64 `json:"purchasePrice"`
	ProfitPerItem   float64 `json:"profitPerItem"`
	TotalInvestment float64 `json:"totalInvestment"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalProfit     float64 `json:"totalProfit"`
	ROI             float64 `json:"roi"`
	Quantity        int     `json:"quantity"`
}

// Manifest is a vendor liquidation lot containing multiple line items.
type Manifest struct {
	ID               string    `json:"id"                db:"id"`
	Name             string    `json:"name"              db:"name"`
	TotalMSRP        float64   `json:"total_msrp"        db:"total_msrp"`
	ProjectedRevenue float64   `json:"projected_revenue" db:"projected_revenue"`
	ProfitMargin     float64   `json:"profit_margin"     db:"profit_margin"`
	CreatedAt        time.Time `json:"created_at"        db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"        db:"updated_at"`
}

// Upload is one ingestion run of a manifest source file.
type Upload struct {
	ID             string       `json:"id"              db:"id"`
	ManifestID     string       `json:"manifest_id"     db:"manifest_id"`
	Filename       string       `json:"filename"        db:"filename"`
	TotalItems     int          `json:"total_items"     db:"total_items"`
	ProcessedItems int          `json:"processed_items" db:"processed_items"`
	Status         UploadStatus `json:"status"          db:"status"`
	CreatedAt      time.Time    `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"      db:"updated_at"`
}

// Item is the persisted row for one manifest line, keyed by
// (manifest_id, item_number).
type Item struct {
	ID         string `json:"id"          db:"id"`
	ManifestID string `json:"manifest_id" db:"manifest_id"`

	EnrichedItem

	EstimatedSalePrice *float64 `json:"estimated_sale_price,omitempty" db:"estimated_sale_price"`
	Profit             *float64 `json:"profit,omitempty"               db:"profit"`
	Demand             string   `json:"demand,omitempty"               db:"demand"`
	SalesTime          string   `json:"sales_time,omitempty"           db:"sales_time"`
	Reasoning          string   `json:"reasoning,omitempty"            db:"reasoning"`

	Status    ItemStatus `json:"status"     db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
