package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/engine"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/enrich"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/ingest"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/store"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

var (
	ingestName    string
	ingestProcess bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <manifest.csv>",
	Short: "Load a manifest CSV into the database",
	Long: "Parses a vendor manifest CSV, creates a manifest and upload record,\n" +
		"and inserts the items as pending. With --process the enrichment\n" +
		"pipeline runs immediately instead of waiting for the scheduler.",
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "manifest name (defaults to the file name)")
	ingestCmd.Flags().BoolVar(&ingestProcess, "process", false, "process the upload immediately")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	f, err := os.Open(path) //nolint:gosec // path from trusted CLI arg
	if err != nil {
		return fmt.Errorf("opening manifest file: %w", err)
	}
	defer f.Close()

	items, err := ingest.ParseManifest(f)
	if err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("no items found in %s", path)
	}

	name := ingestName
	if name == "" {
		name = filepath.Base(path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	manifest := &domain.Manifest{Name: name}
	if err := st.CreateManifest(ctx, manifest); err != nil {
		return fmt.Errorf("creating manifest: %w", err)
	}

	inserted, err := st.InsertItems(ctx, manifest.ID, items)
	if err != nil {
		return fmt.Errorf("inserting items: %w", err)
	}

	upload := &domain.Upload{
		ManifestID: manifest.ID,
		Filename:   filepath.Base(path),
		TotalItems: inserted,
		Status:     domain.UploadPending,
	}
	if err := st.CreateUpload(ctx, upload); err != nil {
		return fmt.Errorf("creating upload: %w", err)
	}

	fmt.Printf("Manifest %s created with %d items (upload %s).\n", manifest.ID, inserted, upload.ID)

	if !ingestProcess {
		fmt.Println("Run with --process or start the server to begin processing.")
		return nil
	}

	eng := engine.NewEngine(st, buildEnricher(cfg, log), buildAnalyzer(cfg, log),
		engine.WithLogger(log),
		engine.WithItemBatchSize(cfg.Schedule.ItemBatchSize),
		engine.WithEnrichOptions(enrich.Options{EnableAILookup: cfg.AI.EnableASINLookup}),
	)

	if err := eng.ProcessUpload(ctx, upload); err != nil {
		return fmt.Errorf("processing upload: %w", err)
	}

	fmt.Println("Processing complete.")
	return nil
}
