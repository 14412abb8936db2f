package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/analyze"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEnrichedTable(items []domain.EnrichedItem) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ITEM\tTITLE\tBRAND\tCONDITION\tMSRP\tQTY\tSOURCE\n")
	for i := range items {
		source := items[i].EnrichmentSource
		if source == "" {
			source = "-"
		}
		tw.writef("%s\t%s\t%s\t%s\t$%.2f\t%d\t%s\n",
			items[i].ItemNumber,
			truncate(items[i].Title, 40),
			items[i].Brand,
			items[i].Condition,
			items[i].MSRP,
			items[i].Quantity,
			source,
		)
	}
	return tw.finish()
}

func printAnalysis(title string, a domain.Analysis, s domain.ProfitSummary) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Title:\t%s\n", title)
	tw.writef("Estimated sale price:\t$%.2f\n", analyze.Round2(a.EstimatedSalePrice))
	tw.writef("Purchase price:\t$%.2f\n", analyze.Round2(s.PurchasePrice))
	tw.writef("Profit per item:\t$%.2f\n", analyze.Round2(s.ProfitPerItem))
	tw.writef("Demand:\t%s\n", a.Demand)
	tw.writef("Sales time:\t%s\n", a.SalesTime)
	tw.writef("Total investment:\t$%.2f\n", analyze.Round2(s.TotalInvestment))
	tw.writef("Total revenue:\t$%.2f\n", analyze.Round2(s.TotalRevenue))
	tw.writef("Total profit:\t$%.2f\n", analyze.Round2(s.TotalProfit))
	tw.writef("ROI:\t%.2f%%\n", analyze.Round2(s.ROI))
	if a.Reasoning != "" {
		tw.writef("Reasoning:\t%s\n", a.Reasoning)
	}
	return tw.finish()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
