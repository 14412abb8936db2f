// Package ingest parses vendor manifest CSV files into raw items.
// Vendors disagree on column naming, so headers are matched against a
// small alias table after lowercasing.
package ingest

import (
	"crypto/md5" //nolint:gosec // non-cryptographic item number fallback
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// columnAliases maps canonical field names to the header spellings seen
// in vendor manifests.
var columnAliases = map[string][]string{
	"item_number": {"item_number", "item number", "item id", "item_id", "sku", "item #", "item#"},
	"title":       {"title", "description", "product", "product name", "product_name", "item description"},
	"brand":       {"brand", "manufacturer", "mfg", "make"},
	"upc":         {"upc", "upc code", "barcode", "ean"},
	"asin":        {"asin"},
	"model":       {"model", "model number", "model_number", "mpn", "part number"},
	"category":    {"category", "department", "product category"},
	"condition":   {"condition", "item condition", "grade"},
	"msrp":        {"msrp", "retail", "retail price", "retail_price", "unit retail", "price", "list price"},
	"quantity":    {"quantity", "qty", "units", "unit count", "count"},
	"notes":       {"notes", "comments", "remarks"},
}

// ParseManifest reads a manifest CSV and returns one RawItem per data
// row. Rows without a title are skipped. A missing item number is
// derived from the title so the (manifest, item_number) key stays
// stable across re-uploads of the same file.
func ParseManifest(r io.Reader) ([]domain.RawItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := mapColumns(header)
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("no title column found in header %v", header)
	}

	var items []domain.RawItem
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		item, ok := parseRow(cols, record)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// mapColumns resolves header cells to canonical field names. The first
// header matching an alias wins for each field.
func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for field, aliases := range columnAliases {
			if _, taken := cols[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

func parseRow(cols map[string]int, record []string) (domain.RawItem, bool) {
	get := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	title := get("title")
	if title == "" {
		return domain.RawItem{}, false
	}

	item := domain.RawItem{
		ItemNumber: get("item_number"),
		Title:      title,
		Brand:      get("brand"),
		UPC:        get("upc"),
		ASIN:       get("asin"),
		Model:      get("model"),
		Category:   get("category"),
		Condition:  get("condition"),
		MSRP:       parsePrice(get("msrp")),
		Quantity:   parseQuantity(get("quantity")),
		Notes:      get("notes"),
	}

	if item.ItemNumber == "" {
		item.ItemNumber = deriveItemNumber(title)
	}

	return item, true
}

// deriveItemNumber produces a stable 12-character key from the title for
// rows that ship without an item number.
func deriveItemNumber(title string) string {
	sum := md5.Sum([]byte(title)) //nolint:gosec // stable key, not security
	return fmt.Sprintf("%x", sum)[:12]
}

// parsePrice strips currency decoration before parsing. Unparseable
// values come back as zero; enrichment may still recover the MSRP.
func parsePrice(s string) float64 {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(s, "$", ""), ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseQuantity(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return 1
	}
	return v
}
