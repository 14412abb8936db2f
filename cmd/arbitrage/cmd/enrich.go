package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/enrich"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/ingest"
)

var enrichAI bool

var enrichCmd = &cobra.Command{
	Use:   "enrich <manifest.csv>",
	Short: "Enrich a manifest CSV without touching the database",
	Long: "Parses a manifest CSV, runs the enrichment chain against the\n" +
		"configured providers, and prints the enriched items. Useful for\n" +
		"inspecting provider coverage before an ingest.",
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichAI, "ai-lookup", false, "enable the AI identifier lookup")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(_ *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0]) //nolint:gosec // path from trusted CLI arg
	if err != nil {
		return fmt.Errorf("opening manifest file: %w", err)
	}
	defer f.Close()

	items, err := ingest.ParseManifest(f)
	if err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("no items found in %s", args[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	enricher := buildEnricher(cfg, log)
	enriched := enricher.EnrichBatch(ctx, items, enrich.Options{
		EnableAILookup: enrichAI && cfg.AI.Configured(),
	})

	if jsonOutput() {
		return printJSON(enriched)
	}
	return printEnrichedTable(enriched)
}
