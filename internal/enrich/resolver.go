package enrich

import (
	"unicode"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// minUsableTitleLen is the length below which an item title is treated as
// too poor to keep when an external title exists.
const minUsableTitleLen = 20

// msrpDivergenceRatio is how far the item's claimed MSRP may sit from the
// provider's list price before the provider's value replaces it.
const msrpDivergenceRatio = 0.5

// Normalize builds the baseline EnrichedItem from a raw row. The raw item
// is not mutated. Quantity floors at 1.
func Normalize(raw domain.RawItem) domain.EnrichedItem {
	quantity := raw.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return domain.EnrichedItem{
		ItemNumber: raw.ItemNumber,
		Title:      NormalizeText(raw.Title),
		Brand:      NormalizeBrand(raw.Brand),
		UPC:        raw.UPC,
		ASIN:       raw.ASIN,
		Model:      raw.Model,
		Category:   raw.Category,
		Condition:  NormalizeCondition(raw.Condition),
		Quantity:   quantity,
		Notes:      raw.Notes,
		MSRP:       raw.MSRP,
	}
}

// Resolve merges external product data into a normalized item. The merge
// is deterministic and idempotent: resolving an already-resolved item
// with the same data changes nothing. A nil ext leaves the item
// un-enriched but still derives the model number.
func Resolve(item domain.EnrichedItem, ext *domain.ExternalProductData) domain.EnrichedItem {
	if ext != nil {
		item.Enriched = true
		item.EnrichmentSource = ext.Source

		// Replace poor quality titles. All-caps titles are usually
		// manifest shorthand, not real product names.
		if ext.Title != "" &&
			(item.Title == "" || len(item.Title) < minUsableTitleLen || isAllUpper(item.Title)) {
			item.Title = NormalizeText(ext.Title)
		}

		if ext.Brand != "" && item.Brand == "" {
			item.Brand = NormalizeBrand(ext.Brand)
		}

		if ext.ASIN != "" && item.ASIN == "" {
			item.ASIN = ext.ASIN
		}

		if ext.ListPrice != nil {
			item.MSRPVerified = true
			list := *ext.ListPrice
			if item.MSRP == 0 || abs(item.MSRP-list) > item.MSRP*msrpDivergenceRatio {
				item.MSRP = list
			}
		}

		if ext.CurrentPrice != nil {
			price := *ext.CurrentPrice
			item.CurrentMarketPrice = &price
		}

		if ext.ImageURL != "" {
			item.ImageURL = ext.ImageURL
		}

		if ext.Category != "" && item.Category == "" {
			item.Category = ext.Category
		}

		if len(ext.Features) > 0 {
			item.Features = ext.Features
		}
	}

	if item.Model == "" {
		item.Model = ExtractModelNumber(item.Title, item.Brand)
	}

	return item
}

// isAllUpper reports whether s contains at least one letter and no
// lowercase letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ValidationWarnings reports soft data-quality problems on a resolved
// item. Problems never block processing; callers log them.
func ValidationWarnings(item domain.EnrichedItem) []string {
	var warnings []string
	if item.Title == "" || len(item.Title) < 3 {
		warnings = append(warnings, "title missing or too short after enrichment")
	}
	if item.MSRP <= 0 {
		warnings = append(warnings, "MSRP missing or non-positive")
	}
	return warnings
}
