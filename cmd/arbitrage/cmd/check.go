package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/analyze"
)

var (
	checkTitle     string
	checkMSRP      float64
	checkQuantity  int
	checkCondition string
	checkNotes     string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Estimate resale value and profit for a single item",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkTitle, "title", "", "item title (required)")
	checkCmd.Flags().Float64Var(&checkMSRP, "msrp", 0, "manufacturer's suggested retail price (required)")
	checkCmd.Flags().IntVar(&checkQuantity, "quantity", 1, "lot quantity")
	checkCmd.Flags().StringVar(&checkCondition, "condition", "", "item condition")
	checkCmd.Flags().StringVar(&checkNotes, "notes", "", "free-form notes for the analyzer")
	cobra.CheckErr(checkCmd.MarkFlagRequired("title"))
	cobra.CheckErr(checkCmd.MarkFlagRequired("msrp"))
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if checkMSRP <= 0 {
		return fmt.Errorf("msrp must be greater than zero")
	}
	if checkQuantity < 1 {
		checkQuantity = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	analyzer := buildAnalyzer(cfg, log)
	analysis, err := analyzer.Analyze(ctx, analyze.Input{
		Title:     checkTitle,
		Condition: checkCondition,
		MSRP:      checkMSRP,
		Quantity:  checkQuantity,
		Notes:     checkNotes,
	})
	if err != nil {
		return fmt.Errorf("analyzing item: %w", err)
	}

	summary := analyze.EstimateProfit(analysis.EstimatedSalePrice, checkQuantity)

	if jsonOutput() {
		return printJSON(map[string]any{
			"analysis": analysis,
			"summary":  summary,
		})
	}
	return printAnalysis(checkTitle, analysis, summary)
}
