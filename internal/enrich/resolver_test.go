package enrich_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/enrich"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := enrich.Normalize(domain.RawItem{
		ItemNumber: "A1",
		Title:      "  <b>Dell  Laptop</b> ",
		Brand:      "dell",
		Condition:  "brand new",
		MSRP:       499.99,
		Quantity:   0,
	})

	assert.Equal(t, "Dell Laptop", got.Title)
	assert.Equal(t, "Dell", got.Brand)
	assert.Equal(t, domain.ConditionNew, got.Condition)
	assert.Equal(t, 1, got.Quantity, "quantity floors at 1")
	assert.False(t, got.Enriched)
	assert.Empty(t, got.EnrichmentSource)
}

func TestResolve_TitleReplacement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		itemTitle string
		extTitle  string
		want      string
	}{
		{
			name:      "all caps title replaced",
			itemTitle: "ALLCAPS TITLE OF A PRODUCT",
			extTitle:  "Proper Product Title",
			want:      "Proper Product Title",
		},
		{
			name:      "short title replaced",
			itemTitle: "Widget",
			extTitle:  "Acme Widget Deluxe 3000",
			want:      "Acme Widget Deluxe 3000",
		},
		{
			name:      "empty title replaced",
			itemTitle: "",
			extTitle:  "Acme Widget Deluxe 3000",
			want:      "Acme Widget Deluxe 3000",
		},
		{
			name:      "good title kept",
			itemTitle: "Sony WH-1000XM4 Wireless Headphones",
			extTitle:  "Some Other Listing Name",
			want:      "Sony WH-1000XM4 Wireless Headphones",
		},
		{
			name:      "no external title keeps original",
			itemTitle: "SHORTCAPS",
			extTitle:  "",
			want:      "SHORTCAPS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := enrich.Resolve(
				domain.EnrichedItem{Title: tt.itemTitle},
				&domain.ExternalProductData{Title: tt.extTitle, Source: "Catalog Lookup"},
			)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestResolve_MSRPVerification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		msrp         float64
		listPrice    *float64
		wantMSRP     float64
		wantVerified bool
	}{
		{
			name:         "zero MSRP adopts list price",
			msrp:         0,
			listPrice:    floatPtr(49.99),
			wantMSRP:     49.99,
			wantVerified: true,
		},
		{
			name:         "close MSRP kept",
			msrp:         100,
			listPrice:    floatPtr(110),
			wantMSRP:     100,
			wantVerified: true,
		},
		{
			name:         "divergent MSRP replaced",
			msrp:         100,
			listPrice:    floatPtr(200),
			wantMSRP:     200,
			wantVerified: true,
		},
		{
			name:         "boundary divergence kept",
			msrp:         100,
			listPrice:    floatPtr(150),
			wantMSRP:     100,
			wantVerified: true,
		},
		{
			name:         "no list price leaves MSRP unverified",
			msrp:         100,
			listPrice:    nil,
			wantMSRP:     100,
			wantVerified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := enrich.Resolve(
				domain.EnrichedItem{Title: "A reasonably long product title", MSRP: tt.msrp},
				&domain.ExternalProductData{ListPrice: tt.listPrice, Source: "Catalog Lookup"},
			)
			assert.InDelta(t, tt.wantMSRP, got.MSRP, 0.001)
			assert.Equal(t, tt.wantVerified, got.MSRPVerified)
		})
	}
}

func TestResolve_FillRules(t *testing.T) {
	t.Parallel()

	item := domain.EnrichedItem{
		Title:    "Sony WH-1000XM4 Wireless Headphones",
		Brand:    "Sony",
		Category: "Audio",
	}
	ext := &domain.ExternalProductData{
		Brand:        "SONY CORP",
		ASIN:         "B08XYZ1234",
		CurrentPrice: floatPtr(278),
		ImageURL:     "https://img.example/xm4.jpg",
		Category:     "Electronics",
		Features:     []string{"ANC", "30h battery"},
		Source:       "Catalog Lookup",
	}

	got := enrich.Resolve(item, ext)

	assert.Equal(t, "Sony", got.Brand, "existing brand kept")
	assert.Equal(t, "Audio", got.Category, "existing category kept")
	assert.Equal(t, "B08XYZ1234", got.ASIN, "missing ASIN filled")
	assert.Equal(t, "https://img.example/xm4.jpg", got.ImageURL)
	assert.Equal(t, []string{"ANC", "30h battery"}, got.Features)
	if assert.NotNil(t, got.CurrentMarketPrice) {
		assert.InDelta(t, 278.0, *got.CurrentMarketPrice, 0.001)
	}
	assert.True(t, got.Enriched)
	assert.Equal(t, "Catalog Lookup", got.EnrichmentSource)
}

func TestResolve_NilExternal(t *testing.T) {
	t.Parallel()

	got := enrich.Resolve(domain.EnrichedItem{Title: "Lenovo ThinkPad T480s laptop", Brand: "Lenovo"}, nil)

	assert.False(t, got.Enriched)
	assert.Empty(t, got.EnrichmentSource)
	assert.Equal(t, "T480s", got.Model, "model derived even without external data")
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	item := domain.EnrichedItem{Title: "SHORT", MSRP: 10}
	ext := &domain.ExternalProductData{
		Title:     "A Proper Full Product Title",
		Brand:     "acme",
		ListPrice: floatPtr(99.99),
		Source:    "Catalog Search",
	}

	once := enrich.Resolve(item, ext)
	twice := enrich.Resolve(once, ext)

	assert.Equal(t, once, twice)
}

func TestResolve_EndToEndIdentifierLookup(t *testing.T) {
	t.Parallel()

	item := enrich.Normalize(domain.RawItem{
		Title: "ALLCAPS TITLE",
		UPC:   "012345678905",
		MSRP:  0,
	})
	ext := &domain.ExternalProductData{
		Title:     "Proper Title",
		Brand:     "dell",
		ListPrice: floatPtr(49.99),
		Source:    "Catalog Lookup",
	}

	got := enrich.Resolve(item, ext)

	assert.Equal(t, "Proper Title", got.Title)
	assert.Equal(t, "Dell", got.Brand)
	assert.InDelta(t, 49.99, got.MSRP, 0.001)
	assert.True(t, got.MSRPVerified)
	assert.True(t, got.Enriched)
}

func TestValidationWarnings(t *testing.T) {
	t.Parallel()

	clean := enrich.ValidationWarnings(domain.EnrichedItem{Title: "Fine Product", MSRP: 10})
	assert.Empty(t, clean)

	dirty := enrich.ValidationWarnings(domain.EnrichedItem{Title: "ab", MSRP: 0})
	assert.Len(t, dirty, 2)
}
