// Package cmd implements the CLI commands for the arbitrage service.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "arbitrage",
	Short: "Enrich and price liquidation manifests",
	Long: "An API-first service that ingests vendor liquidation manifests,\n" +
		"enriches items against product catalog providers, estimates resale\n" +
		"value via LLM analysis, and projects profit under a fixed\n" +
		"acquisition-cost model.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	viper.SetEnvPrefix("ARB")
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
