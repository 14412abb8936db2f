package analyze

import (
	"bytes"
	"fmt"
	"text/template"
)

// resaleTmpl is the resale estimation prompt template.
const resaleTmpl = `Estimate the realistic resale value of this liquidation item.
Respond ONLY with a JSON object matching the schema below.

Title: {{.Title}}
{{- if .Brand}}
Brand: {{.Brand}}{{end}}
{{- if .Condition}}
Condition: {{.Condition}}{{end}}
{{- if gt .MSRP 0.0}}
MSRP: ${{printf "%.2f" .MSRP}}{{end}}
Quantity: {{.Quantity}}
{{- if .Notes}}
Notes: {{.Notes}}{{end}}

Consider the item's condition, brand recognition, and typical secondary
market discounts from MSRP.

Schema:
{
  "estimatedSalePrice": float (realistic resale price per unit, USD),
  "demand": "High" | "Medium" | "Low",
  "salesTime": string (e.g. "1-2 weeks"),
  "reasoning": string (one or two sentences),
  "profitMargin": float (expected margin percentage)
}`

// asinLookupTmpl asks the model to identify a product's Amazon ASIN.
const asinLookupTmpl = `Find the Amazon ASIN for this product: {{.Query}}

Based on your knowledge, what is the most likely Amazon ASIN for this product? Also estimate its current Amazon price.

Respond ONLY with a JSON object:
{
  "asin": "B0XXXXXXX",
  "current_price": 299.99,
  "confidence": "high/medium/low"
}

If you cannot determine the ASIN, respond with: {"asin": null, "current_price": null, "confidence": "none"}`

// Input holds the item attributes fed to the analyzer.
type Input struct {
	Title     string
	Brand     string
	Condition string
	MSRP      float64
	Quantity  int
	Notes     string
}

var (
	resaleTemplate     = template.Must(template.New("resale").Parse(resaleTmpl))
	asinLookupTemplate = template.Must(template.New("asin").Parse(asinLookupTmpl))
)

// RenderResalePrompt renders the resale estimation prompt for an item.
func RenderResalePrompt(in Input) (string, error) {
	var buf bytes.Buffer
	if err := resaleTemplate.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("rendering resale prompt: %w", err)
	}
	return buf.String(), nil
}

// RenderASINLookupPrompt renders the ASIN identification prompt for a
// search query.
func RenderASINLookupPrompt(query string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Query string }{Query: query}
	if err := asinLookupTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering ASIN lookup prompt: %w", err)
	}
	return buf.String(), nil
}
